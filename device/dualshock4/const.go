package dualshock4

const (
	DefaultVID = 0x054C
	DefaultPID = 0x05C4
)

const (
	ReportIDInput   = 0x01
	InputReportSize = 64
)

// Byte offsets of the USB input report. Offset 0 carries the report ID.
const (
	OffsetReportID   = 0
	OffsetLX         = 1
	OffsetLY         = 2
	OffsetRX         = 3
	OffsetRY         = 4
	OffsetFaceDPad   = 5 // Triangle | Circle | Cross | Square | 4-bit hat
	OffsetShoulders  = 6 // R3 | L3 | Options | Share | R2 | L2 | R1 | L1
	OffsetCounterPS  = 7 // 6-bit counter | touchpad click | PS
	OffsetL2Analog   = 8 // 0 released, 0xFF fully pressed
	OffsetR2Analog   = 9
	OffsetBattery    = 12
	OffsetTouchStart = 33
)

// Bits of OffsetFaceDPad.
const (
	ButtonSquare   uint8 = 0x10
	ButtonCross    uint8 = 0x20
	ButtonCircle   uint8 = 0x40
	ButtonTriangle uint8 = 0x80

	DPadMask uint8 = 0x0F
)

// Bits of OffsetShoulders.
const (
	ButtonL1      uint8 = 0x01
	ButtonR1      uint8 = 0x02
	ButtonL2      uint8 = 0x04
	ButtonR2      uint8 = 0x08
	ButtonShare   uint8 = 0x10
	ButtonOptions uint8 = 0x20
	ButtonL3      uint8 = 0x40
	ButtonR3      uint8 = 0x80
)

// Bits of OffsetCounterPS.
const (
	ButtonPS            uint8 = 0x01
	ButtonTouchpadClick uint8 = 0x02

	CounterMask  = 0xFC
	CounterShift = 2
)

// Hat values of the low nibble of OffsetFaceDPad, clockwise from north.
const (
	DPadUp        = 0x00
	DPadUpRight   = 0x01
	DPadRight     = 0x02
	DPadDownRight = 0x03
	DPadDown      = 0x04
	DPadDownLeft  = 0x05
	DPadLeft      = 0x06
	DPadUpLeft    = 0x07
	DPadNeutral   = 0x08
)

// DefaultTriggerThreshold is the analog trigger value treated as pressed.
const DefaultTriggerThreshold = 0x1F
