package render

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNotice(t *testing.T) {
	t.Run("plain when not a terminal", func(t *testing.T) {
		var out bytes.Buffer
		p := New(&out, &bytes.Buffer{}, false, false)

		p.Notice()

		want := "Generating response...\n"
		if got := out.String(); got != want {
			t.Errorf("Notice() wrote %q, want %q", got, want)
		}
	})

	t.Run("colored on a terminal", func(t *testing.T) {
		var out bytes.Buffer
		p := New(&out, &bytes.Buffer{}, true, false)

		p.Notice()

		got := out.String()
		if !strings.Contains(got, "Generating response...") {
			t.Errorf("Notice() wrote %q, missing notice text", got)
		}
		if !strings.Contains(got, ansiYellow) || !strings.HasSuffix(got, ansiReset+"\n") {
			t.Errorf("Notice() wrote %q, want yellow wrapping", got)
		}
	})
}

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "single line", text: "A thief enters dreams.", want: "A thief enters dreams.\n"},
		{name: "multi line", text: "line1\nline2", want: "line1\nline2\n"},
		{name: "empty", text: "", want: "\n"},
		{name: "unicode", text: "こんにちは 🌍", want: "こんにちは 🌍\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(&out, &bytes.Buffer{}, true, true)

			p.Result(tt.text)

			if got := out.String(); got != tt.want {
				t.Errorf("Result() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_NeverColored(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &bytes.Buffer{}, true, true)

	p.Result("plain")

	if strings.Contains(out.String(), "\033[") {
		t.Errorf("Result() wrote %q, want no ANSI escapes", out.String())
	}
}

func TestFault(t *testing.T) {
	t.Run("plain to the error writer", func(t *testing.T) {
		var out, errOut bytes.Buffer
		p := New(&out, &errOut, false, false)

		p.Fault(errors.New("something broke"))

		want := "Error: something broke\n"
		if got := errOut.String(); got != want {
			t.Errorf("Fault() wrote %q, want %q", got, want)
		}
		if out.Len() != 0 {
			t.Errorf("Fault() wrote %q to stdout, want nothing", out.String())
		}
	})

	t.Run("red and bold on a terminal", func(t *testing.T) {
		var errOut bytes.Buffer
		p := New(&bytes.Buffer{}, &errOut, false, true)

		p.Fault(errors.New("something broke"))

		got := errOut.String()
		if !strings.Contains(got, ansiRed) || !strings.Contains(got, ansiBold) {
			t.Errorf("Fault() wrote %q, want red bold wrapping", got)
		}
	})
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(bytes.Buffer) = true, want false")
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening %s: %v", os.DevNull, err)
	}
	defer devNull.Close()

	if IsTerminal(devNull) {
		t.Errorf("IsTerminal(%s) = true, want false", os.DevNull)
	}
}
