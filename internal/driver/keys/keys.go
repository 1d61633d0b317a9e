// Package keys defines the static key catalog for the keyboard: the four
// key categories, their wire byte codes, and the category ids used on the
// control endpoint.
package keys

// Category identifies which of the device's four key families a Key
// belongs to. Standard, Gaming, and Logo keys are LED-programmable;
// Media keys are not.
type Category uint8

const (
	Standard Category = iota
	Gaming
	Logo
	Media
)

func (c Category) String() string {
	switch c {
	case Standard:
		return "Standard"
	case Gaming:
		return "Gaming"
	case Logo:
		return "Logo"
	case Media:
		return "Media"
	default:
		return "Unknown"
	}
}

// WireID returns the category id used in a ColorBatch header. Media has
// no wire id because it is never the target of a color batch.
func (c Category) WireID() (uint16, bool) {
	switch c {
	case Standard:
		return 0x0001, true
	case Gaming:
		return 0x0004, true
	case Logo:
		return 0x0010, true
	default:
		return 0, false
	}
}

// Key is a tagged variant over the four categories, each carrying a
// category-local wire byte. Two keys are equal iff Category and Code match.
type Key struct {
	Category Category
	Code      uint8
}

// Standard/Gaming/Logo/Media key codes, lifted from the device's HID and
// vendor report layouts.
const (
	KeyA     = 0x04
	KeyB     = 0x05
	KeyC     = 0x06
	KeyD     = 0x07
	KeyE     = 0x08
	KeyF     = 0x09
	KeyG     = 0x0a
	KeyH     = 0x0b
	KeyI     = 0x0c
	KeyJ     = 0x0d
	KeyK     = 0x0e
	KeyL     = 0x0f
	KeyM     = 0x10
	KeyN     = 0x11
	KeyO     = 0x12
	KeyP     = 0x13
	KeyQ     = 0x14
	KeyR     = 0x15
	KeyS     = 0x16
	KeyT     = 0x17
	KeyU     = 0x18
	KeyV     = 0x19
	KeyW     = 0x1a
	KeyX     = 0x1b
	KeyZ     = 0x1c
	KeyY     = 0x1d
	Key1     = 0x1e
	Key2     = 0x1f
	Key3     = 0x20
	Key4     = 0x21
	Key5     = 0x22
	Key6     = 0x23
	Key7     = 0x24
	Key8     = 0x25
	Key9     = 0x26
	Key0     = 0x27
	KeyReturn    = 0x28
	KeyEsc       = 0x29
	KeyBackspace = 0x2a
	KeyTab       = 0x2b
	KeySpace     = 0x2c
	KeyMinus     = 0x38
	KeyCapsLock  = 0x39
	KeyF1        = 0x3a
	KeyF2        = 0x3b
	KeyF3        = 0x3c
	KeyF4        = 0x3d
	KeyF5        = 0x3e
	KeyF6        = 0x3f
	KeyF7        = 0x40
	KeyF8        = 0x41
	KeyF9        = 0x42
	KeyF10       = 0x43
	KeyF11       = 0x44
	KeyF12       = 0x45
	KeyPrint     = 0x46
	KeyScrollLock = 0x47
	KeyPause     = 0x48
	KeyInsert    = 0x49
	KeyHome      = 0x4a
	KeyPageUp    = 0x4b
	KeyDelete    = 0x4c
	KeyEnd       = 0x4d
	KeyPageDown  = 0x4e
	KeyRight     = 0x4f
	KeyLeft      = 0x50
	KeyDown      = 0x51
	KeyUp        = 0x52
	KeyNumLock   = 0x53
	KeyMenu      = 0x65

	KeyLeftControl  = 0xe0
	KeyLeftShift    = 0xe1
	KeyLeftAlt      = 0xe2
	KeyLeftWindows  = 0xe3
	KeyRightControl = 0xe4
	KeyRightShift   = 0xe5
	KeyRightAlt     = 0xe6
	KeyRightWindows = 0xe7
)

// Gaming macro keys G1-G9.
const (
	GamingG1 = 0x01
	GamingG2 = 0x02
	GamingG3 = 0x03
	GamingG4 = 0x04
	GamingG5 = 0x05
	GamingG6 = 0x06
	GamingG7 = 0x07
	GamingG8 = 0x08
	GamingG9 = 0x09
)

// Logo LEDs.
const (
	LogoG    = 0x01
	LogoG910 = 0x02
)

// Media key bitmap flags. Unlike the other categories, byte 1 of a media
// report is a bitmap rather than a list of pressed codes: a media key is
// "pressed" when every bit of its code is set in the report byte, so
// codes that are bitwise subsets of other codes must match on exact-bit
// coverage, not a simple non-zero AND.
const (
	MediaMute       = 0x01
	MediaPlayPause  = 0x02
	MediaPrevTrack  = 0x04
	MediaNextTrack  = 0x08
	MediaVolumeUp   = 0x10
	MediaVolumeDown = 0x20
)

// Constructors for each category.
func NewStandard(code uint8) Key { return Key{Category: Standard, Code: code} }
func NewGaming(code uint8) Key   { return Key{Category: Gaming, Code: code} }
func NewLogo(code uint8) Key     { return Key{Category: Logo, Code: code} }
func NewMedia(code uint8) Key    { return Key{Category: Media, Code: code} }

// StandardKeys lists every programmable Standard key.
func StandardKeys() []Key {
	codes := []uint8{
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyZ, KeyY,
		Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9, Key0,
		KeyReturn, KeyEsc, KeyBackspace, KeyTab, KeySpace, KeyMinus, KeyCapsLock,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
		KeyPrint, KeyScrollLock, KeyPause, KeyInsert, KeyHome, KeyPageUp, KeyDelete,
		KeyEnd, KeyPageDown, KeyRight, KeyLeft, KeyDown, KeyUp, KeyNumLock, KeyMenu,
		KeyLeftControl, KeyLeftShift, KeyLeftAlt, KeyLeftWindows,
		KeyRightControl, KeyRightShift, KeyRightAlt, KeyRightWindows,
	}
	keys := make([]Key, len(codes))
	for i, c := range codes {
		keys[i] = NewStandard(c)
	}
	return keys
}

// GamingKeys lists every programmable Gaming key.
func GamingKeys() []Key {
	codes := []uint8{GamingG1, GamingG2, GamingG3, GamingG4, GamingG5, GamingG6, GamingG7, GamingG8, GamingG9}
	keys := make([]Key, len(codes))
	for i, c := range codes {
		keys[i] = NewGaming(c)
	}
	return keys
}

// LogoKeys lists every programmable Logo key.
func LogoKeys() []Key {
	codes := []uint8{LogoG, LogoG910}
	keys := make([]Key, len(codes))
	for i, c := range codes {
		keys[i] = NewLogo(c)
	}
	return keys
}

// MediaCodes lists every recognized media bitmap flag.
func MediaCodes() []uint8 {
	return []uint8{MediaMute, MediaPlayPause, MediaPrevTrack, MediaNextTrack, MediaVolumeUp, MediaVolumeDown}
}

// AllColorable returns every key in the catalog that has a programmable
// LED, i.e. every key except Media.
func AllColorable() []Key {
	all := make([]Key, 0, len(StandardKeys())+len(GamingKeys())+len(LogoKeys()))
	all = append(all, StandardKeys()...)
	all = append(all, GamingKeys()...)
	all = append(all, LogoKeys()...)
	return all
}

// StandardByCode looks up the Standard key with the given wire byte.
// The zero code (StandardKey::None in the original firmware table) never
// matches, mirroring the source's "ignore unknown codes" rule.
func StandardByCode(code uint8) (Key, bool) {
	if code == 0 {
		return Key{}, false
	}
	for _, k := range StandardKeys() {
		if k.Code == code {
			return k, true
		}
	}
	return Key{}, false
}
