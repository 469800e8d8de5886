package gx

import (
	"io"
	"log/slog"
)

// Blocks until the GPU reports that every command before the last draw
// done token has been processed. The hardware offers no timeout
type FinishWaiter interface {
	WaitDrawDone()
}

// FinishWaiter used when no GPU is attached: nothing ever runs behind the
// sink, so there is nothing to wait for
type noWait struct{}

func (noWait) WaitDrawDone() {}

// FinishSignal is a FinishWaiter driven by whoever plays the part of the
// GPU (an emulator, a test). Signal never blocks: signals sent while one
// is already pending collapse into it, so tokens written with SetDrawDone
// and never waited on cannot stall the GPU side
type FinishSignal struct {
	ch chan struct{}
}

func NewFinishSignal() *FinishSignal {
	return &FinishSignal{ch: make(chan struct{}, 1)}
}

// Reports one finished draw
func (s *FinishSignal) Signal() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *FinishSignal) WaitDrawDone() {
	<-s.ch
}

// Option configures a Device during creation
type Option func(*deviceOptions)

type deviceOptions struct {
	mode   RenderMode
	lg     *slog.Logger
	waiter FinishWaiter
	mem    *Memory
}

func defaultOptions() deviceOptions {
	return deviceOptions{
		mode:   RENDER_MODE_NTSC_480P,
		waiter: noWait{},
	}
}

// Sets the frame buffer geometry used for the default viewport, scissor
// and copy rectangles
func WithRenderMode(mode RenderMode) Option {
	return func(o *deviceOptions) {
		o.mode = mode
	}
}

// Sets the logger of this device. Defaults to the package logger
func WithLogger(l *slog.Logger) Option {
	return func(o *deviceOptions) {
		o.lg = l
	}
}

// Sets what DrawDone blocks on
func WithFinishWaiter(w FinishWaiter) Option {
	return func(o *deviceOptions) {
		o.waiter = w
	}
}

// Attaches the memory arena buffers are allocated from. Only needed by
// helpers that allocate on the caller's behalf, such as UploadDispList
func WithMemory(mem *Memory) Option {
	return func(o *deviceOptions) {
		o.mem = mem
	}
}

// Per vertex format attribute table, mirrored because CP registers cannot
// be read back
type vatState struct {
	A, B, C uint32
}

// Device is the single owner of the command FIFO. Every operation that
// produces commands goes through it, in program order.
//
// The hardware registers are write-only, so the Device keeps shadow copies
// of the registers it updates piecewise. Vertex descriptor, attribute table
// and matrix index changes are collected and written right before the next
// Begin, CallDispList or BeginDispList.
//
// Device is NOT safe for concurrent use; the FIFO has no arbitration.
type Device struct {
	pipe   *Pipe
	lg     *slog.Logger
	mode   RenderMode
	waiter FinishWaiter
	mem    *Memory

	genMode  uint32
	peZMode  uint32
	peCMode0 uint32
	peCMode1 uint32
	peCntrl  uint32

	tevColorEnv [MAX_TEV_STAGES]uint32
	tevAlphaEnv [MAX_TEV_STAGES]uint32
	tevRasOrder [MAX_TEV_STAGES / 2]uint32

	vcdLo    uint32
	vcdHi    uint32
	vcdNrms  uint32 // 0 none, 1 normal, 2 normal+binormal+tangent
	vat      [MAX_VTXFMT]vatState
	vatDirty uint8 // one bit per vertex format
	vcdDirty bool

	matIdxA     uint32
	matIdxB     uint32
	matIdxDirty bool

	dispCopyTL    uint32
	dispCopyWH    uint32
	dispCopyDst   uint32
	dispCopyCntrl uint32
	dispCopyYScl  uint32

	inPrim  bool
	list    *DispList
	prevOut io.Writer
	prevLen int64
	prevErr error
}

// Creates a device writing its command stream into `sink` and programs
// the default state. The sink stands in for the GPU FIFO, so it must
// accept writes for as long as the device is in use
func New(sink io.Writer, opts ...Option) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.lg == nil {
		o.lg = Logger()
	}

	d := &Device{
		pipe:   NewPipe(sink),
		lg:     o.lg,
		mode:   o.mode,
		waiter: o.waiter,
		mem:    o.mem,
	}
	d.pipe.lg = o.lg
	d.Init()
	return d
}

// Returns the command channel of this device
func (d *Device) Pipe() *Pipe {
	return d.pipe
}

// Returns the render mode the device was created with
func (d *Device) RenderMode() RenderMode {
	return d.mode
}

// Programs the power-on defaults: every descriptor cleared, full screen
// viewport and scissor, black clear color, Z test on, blending off, a
// single pass-through TEV stage, one color channel, no texgens
func (d *Device) Init() {
	w, h := d.mode.FBWidth, d.mode.EFBHeight

	d.resetShadows()
	for i := range d.vat {
		// byte dequantization is always on; VAT B also carries the
		// vertex cache enhancement bit
		d.vat[i] = vatState{A: 1 << 30, B: 1 << 31}
	}
	d.vatDirty = 0xff
	d.matIdxA = uint32(PNMTX0)
	for tc := 0; tc < 4; tc++ {
		d.matIdxA = setBits(d.matIdxA, uint(6+6*tc), 6, uint32(IDENTITY))
	}
	for tc := 0; tc < 4; tc++ {
		d.matIdxB = setBits(d.matIdxB, uint(6*tc), 6, uint32(IDENTITY))
	}
	d.matIdxDirty = true

	d.InvalidateVtxCache()
	d.ClearVtxDesc()
	d.SetVtxDesc(VA_POS, DIRECT)
	d.flushState()

	d.SetNumChans(1)
	d.SetNumTexGens(0)
	d.SetNumTevStages(1)
	d.SetTevOrderColor(TEVSTAGE0, COLOR0A0)
	d.SetTevOp(TEVSTAGE0, TEV_PASSCLR)
	d.SetCullMode(CULL_BACK)

	d.SetCopyClear(CLEAR_BLACK, 0x00ffffff)
	d.SetViewport(0, 0, float32(w), float32(h), 0, 1)
	d.SetScissor(0, 0, uint32(w), uint32(h))
	d.SetScissorBoxOffset(0, 0)

	d.SetZMode(true, COMPARE_LEQUAL, true)
	d.SetBlendMode(BLEND_NONE, BL_SRCALPHA, BL_INVSRCALPHA, LO_CLEAR)
	d.SetColorUpdate(true)
	d.SetAlphaUpdate(true)
	d.SetDither(true)
	d.SetPixelFmt(PF_RGB8_Z24, ZC_LINEAR)
	d.SetZCompLoc(true)
	d.SetAlphaCompare(COMPARE_ALWAYS, 0, AOP_AND, COMPARE_ALWAYS, 0)

	d.SetCopyFilter(false, [12][2]uint8{}, false, [7]uint8{})
	d.dispCopyCntrl = COPY_CLAMP_TOP | COPY_CLAMP_BOTTOM
	d.SetDispCopySrc(0, 0, w, h)
	d.SetDispCopyDst(w, h)
	d.SetDispCopyYScale(1)

	d.InvalidateTexAll()

	d.lg.Debug("gx: device initialized",
		slog.Int("width", int(w)), slog.Int("efbHeight", int(h)),
		slog.Int64("bytes", d.pipe.Len()))
}

// Zeroes every shadowed register, as after a hardware reset. Register
// halves that Init does not program must not keep values set before it
func (d *Device) resetShadows() {
	d.genMode = 0
	d.peZMode = 0
	d.peCMode0 = 0
	d.peCMode1 = 0
	d.peCntrl = 0

	d.tevColorEnv = [MAX_TEV_STAGES]uint32{}
	d.tevAlphaEnv = [MAX_TEV_STAGES]uint32{}
	d.tevRasOrder = [MAX_TEV_STAGES / 2]uint32{}

	d.vcdLo, d.vcdHi, d.vcdNrms = 0, 0, 0
	d.vat = [MAX_VTXFMT]vatState{}
	d.matIdxA, d.matIdxB = 0, 0

	d.dispCopyTL = 0
	d.dispCopyWH = 0
	d.dispCopyDst = 0
	d.dispCopyCntrl = 0
	d.dispCopyYScl = 0
}

// Writes the vertex descriptor, attribute tables and matrix indices that
// changed since the last flush. The CP registers are written before the XF
// copies so the two units never disagree about a vertex mid-draw
func (d *Device) flushState() {
	if d.vcdDirty {
		CP_VCD_LO.Load(d.pipe, d.vcdLo)
		CP_VCD_HI.Load(d.pipe, d.vcdHi)
		XF_INVTXSPEC.Load(d.pipe, d.xfVtxSpec())
		d.vcdDirty = false
	}
	for i := range d.vat {
		if d.vatDirty&(1<<i) == 0 {
			continue
		}
		f := VtxFmt(i)
		cpVatA(f).Load(d.pipe, d.vat[i].A)
		cpVatB(f).Load(d.pipe, d.vat[i].B)
		cpVatC(f).Load(d.pipe, d.vat[i].C)
	}
	d.vatDirty = 0
	if d.matIdxDirty {
		CP_MATINDEX_A.Load(d.pipe, d.matIdxA)
		XF_MATINDEX_A.Load(d.pipe, d.matIdxA)
		CP_MATINDEX_B.Load(d.pipe, d.matIdxB)
		XF_MATINDEX_B.Load(d.pipe, d.matIdxB)
		d.matIdxDirty = false
	}
}

// Writes the generation mode register after a change to one of its fields
func (d *Device) loadGenMode() {
	BP_GEN_MODE.Load(d.pipe, d.genMode)
}
