package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]string{"text": "hi"}, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["text"] != "hi" {
		t.Errorf("got %v", got)
	}
}

func TestOutputYAMLDefault(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]string{"text": "hi"}, OutputOptions{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "text: hi") {
		t.Errorf("yaml output = %q", buf.String())
	}
}

func TestOutputRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := Output([]byte{0x01, 0x02}, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2 {
		t.Errorf("raw bytes = %v", buf.Bytes())
	}

	buf.Reset()
	if err := Output("plain", OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "plain" {
		t.Errorf("raw string = %q", buf.String())
	}

	if err := Output(struct{}{}, OutputOptions{Format: FormatRaw, Writer: &buf}); err == nil {
		t.Error("raw with struct should fail")
	}
}

func TestOutputUnsupportedFormat(t *testing.T) {
	if err := Output("x", OutputOptions{Format: "xml"}); err == nil {
		t.Error("expected unsupported format error")
	}
}
