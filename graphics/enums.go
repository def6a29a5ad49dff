package graphics

// Enum is an OpenGL enumerant.
type Enum uint32

const (
	FALSE = 0
	TRUE  = 1

	TRIANGLES        Enum = 0x0004
	COLOR_BUFFER_BIT Enum = 0x4000

	TEXTURE_1D        Enum = 0x0de0
	TEXTURE_2D        Enum = 0x0de1
	TEXTURE_3D        Enum = 0x806f
	TEXTURE_RECTANGLE Enum = 0x84f5
	TEXTURE0          Enum = 0x84c0

	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	TEXTURE_WRAP_R     Enum = 0x8072

	NEAREST         Enum = 0x2600
	LINEAR          Enum = 0x2601
	REPEAT          Enum = 0x2901
	CLAMP_TO_EDGE   Enum = 0x812f
	MIRRORED_REPEAT Enum = 0x8370

	UNPACK_ALIGNMENT Enum = 0x0cf5
	PACK_ALIGNMENT   Enum = 0x0d05

	// Source pixel layouts.
	RED             Enum = 0x1903
	RG              Enum = 0x8227
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	BGRA            Enum = 0x80e1
	YCBCR_422_APPLE Enum = 0x85b9
	YCBCR_MESA      Enum = 0x8757

	// Internal storage formats.
	R8      Enum = 0x8229
	R16     Enum = 0x822a
	RG8     Enum = 0x822b
	RG16    Enum = 0x822c
	RGB8    Enum = 0x8051
	RGBA8   Enum = 0x8058
	RGBA16F Enum = 0x881a

	// Component encodings.
	UNSIGNED_BYTE                Enum = 0x1401
	UNSIGNED_SHORT               Enum = 0x1403
	FLOAT                        Enum = 0x1406
	HALF_FLOAT                   Enum = 0x140b
	UNSIGNED_INT_8_8_8_8         Enum = 0x8035
	UNSIGNED_INT_8_8_8_8_REV     Enum = 0x8367
	UNSIGNED_SHORT_8_8_APPLE     Enum = 0x85ba
	UNSIGNED_SHORT_8_8_REV_APPLE Enum = 0x85bb
	UNSIGNED_SHORT_8_8_MESA      Enum = 0x85ba
	UNSIGNED_SHORT_8_8_REV_MESA  Enum = 0x85bb

	FRAMEBUFFER          Enum = 0x8d40
	READ_FRAMEBUFFER     Enum = 0x8ca8
	DRAW_FRAMEBUFFER     Enum = 0x8ca9
	COLOR_ATTACHMENT0    Enum = 0x8ce0
	FRAMEBUFFER_COMPLETE Enum = 0x8cd5

	VERTEX_SHADER   Enum = 0x8b31
	FRAGMENT_SHADER Enum = 0x8b30
	COMPILE_STATUS  Enum = 0x8b81
	LINK_STATUS     Enum = 0x8b82

	ARRAY_BUFFER Enum = 0x8892
	STREAM_DRAW  Enum = 0x88e0
)
