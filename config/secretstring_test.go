package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretString(t *testing.T) {
	tests := []struct {
		name     string
		value    SecretString
		wantStr  string
		wantJSON string
	}{
		{"empty", "", "", "null"},
		{"set", "hunter2", SecretStringValue, `"` + SecretStringValue + `"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
			if got := fmt.Sprintf("%v", tt.value); got != tt.wantStr {
				t.Errorf("formatted = %q, want %q", got, tt.wantStr)
			}
			// default encoder would escape angle brackets of the marker
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			if err := enc.Encode(struct{ Token SecretString }{tt.value}); err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if got, want := strings.TrimSpace(buf.String()), `{"Token":`+tt.wantJSON+`}`; got != want {
				t.Errorf("json = %s, want %s", got, want)
			}
			var back struct{ Token string }
			if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if string(tt.value) != "" && back.Token != SecretStringValue {
				t.Errorf("decoded token = %q, want %q", back.Token, SecretStringValue)
			}
			if tt.value.Value() != string(tt.value) {
				t.Errorf("Value() = %q", tt.value.Value())
			}
		})
	}
}
