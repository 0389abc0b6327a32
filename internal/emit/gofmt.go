package emit

import "go/format"

// GoFormatter is the default Formatter: it runs generated source through
// go/format, the same gofmt machinery the teacher's own source tree is
// formatted with. There's no third-party alternative to reach for here —
// go/format *is* the idiomatic way to format Go source.
type GoFormatter struct{}

func (GoFormatter) Format(source string) (string, error) {
	out, err := format.Source([]byte(source))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
