package scrollback

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func (options *CLIOptions) parse(s []string) ([]string, error) {
	p := flags.NewParser(options, flags.PassDoubleDash)
	args, err := p.ParseArgs(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	return args, nil
}

// Validate checks the values that go-flags can not check for us
func (options CLIOptions) Validate() error {
	if options.OptIncrement < 0 {
		return errors.Errorf("--increment must be positive, got %d", options.OptIncrement)
	}
	if options.OptPages < 0 {
		return errors.Errorf("--pages must be positive, got %d", options.OptPages)
	}
	if options.OptLastSeen < 0 {
		return errors.Errorf("--last-seen must be positive, got %d", options.OptLastSeen)
	}
	return nil
}

// Pages returns the number of pages to fetch
func (options CLIOptions) Pages() int {
	if options.OptPages > 0 {
		return options.OptPages
	}
	return 1
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: scrollback [options] [FILE]

Reads a conversation history from FILE (or stdin), one
"prefix<TAB>message" line at a time, and prints the window of
history a reader would see, marking where they stopped reading.

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
