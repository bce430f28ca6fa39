package models

// Class is the 3-way directional label. Integer values match the
// probability column order returned by the model service.
type Class int

const (
	Short   Class = 0
	Long    Class = 1
	NoTrade Class = 2

	// ClassUndefined marks rows whose forward horizon falls outside the
	// available bar range. Trimming removes them before training.
	ClassUndefined Class = -1
)

var classNames = [...]string{"SHORT", "LONG", "NO_TRADE"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "UNDEFINED"
	}
	return classNames[c]
}

// Defined reports whether the label carries a usable value.
func (c Class) Defined() bool { return c >= 0 && int(c) < len(classNames) }

// ClassFromIndex maps a model output column index back to a Class.
func ClassFromIndex(i int) (Class, bool) {
	if i < 0 || i >= len(classNames) {
		return ClassUndefined, false
	}
	return Class(i), true
}

// ClassNames returns the signal names in model output column order.
func ClassNames() []string {
	out := make([]string, len(classNames))
	copy(out, classNames[:])
	return out
}
