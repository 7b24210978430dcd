package collect

import (
	"io"
	"log/slog"
	"testing"

	"github.com/tbonville/mastery-lab/internal/config"
)

func TestDisplayName(t *testing.T) {
	names := map[int]string{
		62:  "Wukong",
		103: "Ahri",
	}
	c := NewMatchCollector(nil, nil, nil, nil, config.CollectionConfig{},
		nil, names, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		championID int
		payload    string
		want       string
	}{
		{"internal id remapped", 62, "MonkeyKing", "Wukong"},
		{"already canonical", 103, "Ahri", "Ahri"},
		{"unknown id keeps payload name", 999, "Newcomer", "Newcomer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.displayName(tt.championID, tt.payload); got != tt.want {
				t.Errorf("displayName(%d, %q) = %q, want %q",
					tt.championID, tt.payload, got, tt.want)
			}
		})
	}
}

func TestDisplayNameWithoutMapping(t *testing.T) {
	c := NewMatchCollector(nil, nil, nil, nil, config.CollectionConfig{},
		nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if got := c.displayName(62, "MonkeyKing"); got != "MonkeyKing" {
		t.Errorf("displayName without mapping = %q, want payload name", got)
	}
}
