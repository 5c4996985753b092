package notify

import "strings"

// Field is an optional draft field behind an enable switch.
type Field struct {
	Enabled bool
	Value   string
}

// On returns an enabled field.
func On(v string) Field { return Field{Enabled: true, Value: v} }

// Content is the value that goes into the payload: empty when disabled.
func (f Field) Content() string {
	if !f.Enabled {
		return ""
	}
	return f.Value
}

// Draft is the content authored by the channel owner.
type Draft struct {
	Subject Field
	Body    string
	CTA     Field
	Media   Field
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
