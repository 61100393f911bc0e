package model

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeDark, ThemeLight:
		return true
	default:
		return false
	}
}

// ParseTheme accepts only the exact persisted literals.
func ParseTheme(raw string) (Theme, bool) {
	t := Theme(raw)
	return t, t.IsValid()
}

func ThemeFor(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Dark() bool {
	return t == ThemeDark
}
