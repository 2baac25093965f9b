package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

var ignoreModsOnce sync.Once

// BindKey grabs keySequence (e.g. "Mod4-Shift-q") on the root window and
// runs fn on the event loop whenever it is pressed. Lock modifiers are
// ignored.
func (c *Connection) BindKey(keySequence string, fn func()) error {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(c.XUtil)
	})
	err := keybind.KeyPressFun(func(_ *xgbutil.XUtil, _ xevent.KeyPressEvent) {
		fn()
	}).Connect(c.XUtil, c.Root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}
	return nil
}

// configureIgnoreMods makes key grabs match with any combination of
// CapsLock, NumLock and ScrollLock held.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = lockCombinations(base)
}

// lockCombinations returns every OR of a subset of masks, the empty set
// included.
func lockCombinations(masks []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(masks))
	for subset := 0; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
