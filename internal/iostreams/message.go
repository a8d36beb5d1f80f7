package iostreams

import "fmt"

// PrintWarning prints "! message" (or "[warn] message") to stderr.
func (ios *IOStreams) PrintWarning(format string, args ...any) error {
	_, err := fmt.Fprintln(ios.ErrOut, ios.ColorScheme().WarningIconWithColor(fmt.Sprintf(format, args...)))
	return err
}

// PrintEmpty prints "No {noun} found." to stderr followed by optional hint lines.
func (ios *IOStreams) PrintEmpty(noun string, hints ...string) error {
	cs := ios.ColorScheme()
	if _, err := fmt.Fprintln(ios.ErrOut, cs.Muted(fmt.Sprintf("No %s found.", noun))); err != nil {
		return err
	}
	for _, hint := range hints {
		if _, err := fmt.Fprintln(ios.ErrOut, cs.Muted("  "+hint)); err != nil {
			return err
		}
	}
	return nil
}
