//go:build !js

package desktop

import (
	"strconv"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/canvasapp/engine/core"
)

// GLFW letters, digits and space share their codes with the DOM; the rest
// needs translating.
var glfwToDOM = map[glfw.Key]core.KeyCode{
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyKPEnter:      core.KEY_ENTER,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyScrollLock:   core.KEY_SCROLL,
	glfw.KeyNumLock:      core.KEY_NUMLOCK,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyLeftShift:    core.KEY_SHIFT,
	glfw.KeyRightShift:   core.KEY_SHIFT,
	glfw.KeyLeftControl:  core.KEY_CONTROL,
	glfw.KeyRightControl: core.KEY_CONTROL,
	glfw.KeyLeftAlt:      core.KEY_MENU,
	glfw.KeyRightAlt:     core.KEY_MENU,
	glfw.KeyLeftSuper:    core.KEY_LWIN,
	glfw.KeyRightSuper:   core.KEY_RWIN,
	glfw.KeySemicolon:    core.KEY_SEMICOLON,
	glfw.KeyEqual:        core.KEY_PLUS,
	glfw.KeyComma:        core.KEY_COMMA,
	glfw.KeyMinus:        core.KEY_MINUS,
	glfw.KeyPeriod:       core.KEY_PERIOD,
	glfw.KeySlash:        core.KEY_SLASH,
	glfw.KeyGraveAccent:  core.KEY_GRAVE,
	glfw.KeyKPMultiply:   core.KEY_MULTIPLY,
	glfw.KeyKPAdd:        core.KEY_ADD,
	glfw.KeyKPSubtract:   core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:    core.KEY_DECIMAL,
	glfw.KeyKPDivide:     core.KEY_DIVIDE,
	glfw.KeyKPEqual:      core.KEY_NUMPAD_EQUAL,
}

var domKeyNames = map[core.KeyCode]string{
	core.KEY_ESCAPE:    "Escape",
	core.KEY_ENTER:     "Enter",
	core.KEY_TAB:       "Tab",
	core.KEY_BACKSPACE: "Backspace",
	core.KEY_INSERT:    "Insert",
	core.KEY_DELETE:    "Delete",
	core.KEY_RIGHT:     "ArrowRight",
	core.KEY_LEFT:      "ArrowLeft",
	core.KEY_DOWN:      "ArrowDown",
	core.KEY_UP:        "ArrowUp",
	core.KEY_PRIOR:     "PageUp",
	core.KEY_NEXT:      "PageDown",
	core.KEY_HOME:      "Home",
	core.KEY_END:       "End",
	core.KEY_CAPITAL:   "CapsLock",
	core.KEY_SCROLL:    "ScrollLock",
	core.KEY_NUMLOCK:   "NumLock",
	core.KEY_PAUSE:     "Pause",
	core.KEY_SHIFT:     "Shift",
	core.KEY_CONTROL:   "Control",
	core.KEY_MENU:      "Alt",
	core.KEY_LWIN:      "Meta",
	core.KEY_RWIN:      "Meta",
	core.KEY_SPACE:     " ",
}

func keyCode(key glfw.Key) core.KeyCode {
	if code, ok := glfwToDOM[key]; ok {
		return code
	}
	switch {
	case key >= glfw.KeyF1 && key <= glfw.KeyF24:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1)
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_NUMPAD0 + core.KeyCode(key-glfw.KeyKP0)
	case key == glfw.KeySpace,
		key >= glfw.Key0 && key <= glfw.Key9,
		key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KeyCode(key)
	}
	return 0
}

// keyName approximates KeyboardEvent.key.
func keyName(key glfw.Key, scancode int) string {
	code := keyCode(key)
	if name, ok := domKeyNames[code]; ok {
		return name
	}
	if code >= core.KEY_F1 && code <= core.KEY_F24 {
		return "F" + strconv.Itoa(int(code-core.KEY_F1)+1)
	}
	if name := glfw.GetKeyName(key, scancode); name != "" {
		return name
	}
	return "Unidentified"
}

// domButton maps GLFW's left/right/middle order to the DOM's left/middle/right.
func domButton(button glfw.MouseButton) core.Button {
	switch button {
	case glfw.MouseButtonLeft:
		return core.BUTTON_LEFT
	case glfw.MouseButtonMiddle:
		return core.BUTTON_MIDDLE
	case glfw.MouseButtonRight:
		return core.BUTTON_RIGHT
	case glfw.MouseButton4:
		return core.BUTTON_BACK
	case glfw.MouseButton5:
		return core.BUTTON_FORWARD
	}
	return core.Button(button)
}
