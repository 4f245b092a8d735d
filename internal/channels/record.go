package channels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Record is one channel entry of the output dataset.
type Record struct {
	Input      string  `json:"input"`
	ID         *string `json:"id"`
	Handle     string  `json:"handle"`
	Title      string  `json:"title"`
	Pfp        string  `json:"pfp"`
	Verified   bool    `json:"verified"`
	Subs       Count   `json:"subs"`
	Videos     Count   `json:"videos"`
	Views      Count   `json:"views"`
	HiddenSubs bool    `json:"hiddenSubs"`
}

// DisplayName is the name records are sorted and filtered by.
func (r Record) DisplayName() string {
	switch {
	case r.Title != "":
		return r.Title
	case r.Handle != "":
		return r.Handle
	case r.ID != nil:
		return *r.ID
	}
	return ""
}

// Metrics returns the record's counters.
func (r Record) Metrics() Metrics {
	return Metrics{Subscribers: r.Subs, Views: r.Views, Videos: r.Videos}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// linkIdentity picks id and handle for a record, falling back to the raw
// input so every record stays linkable.
func linkIdentity(input string, b PageBasics) (*string, string) {
	id := b.ID
	if id == "" && IsChannelID(input) {
		id = input
	}
	handle := b.Handle
	if handle == "" && id == "" {
		handle = input
	}
	if id == "" {
		return nil, handle
	}
	return &id, handle
}

// NewRecord combines page metadata and metrics into a Record.
func NewRecord(input string, b PageBasics, m Metrics) Record {
	id, handle := linkIdentity(input, b)
	idStr := ""
	if id != nil {
		idStr = *id
	}
	return Record{
		Input:      input,
		ID:         id,
		Handle:     handle,
		Title:      firstNonEmpty(b.Title, handle, idStr, "Channel"),
		Pfp:        b.AvatarURL,
		Verified:   b.Verified,
		Subs:       m.Subscribers,
		Videos:     m.Videos,
		Views:      m.Views,
		HiddenSubs: !m.Subscribers.Present(),
	}
}

// DegradedRecord is the record for a channel whose page could not be
// fetched: identity comes from the input alone and all metrics are absent.
func DegradedRecord(input string) Record {
	return NewRecord(input, PageBasics{}, Metrics{})
}

// MismatchRecord is the record for a channel whose page kept resolving to
// another channel. Page fields describe that other channel, so for handle
// and id inputs only the input identity is kept. Legacy inputs cannot be
// checked precisely and keep the page's title and avatar.
func MismatchRecord(input string, b PageBasics) Record {
	if IsHandle(input) || IsChannelID(input) {
		return DegradedRecord(input)
	}
	return NewRecord(input, PageBasics{Title: b.Title, AvatarURL: b.AvatarURL}, Metrics{})
}

// Dataset is the file consumed by the front end.
type Dataset struct {
	GeneratedAt string   `json:"generatedAt"`
	Channels    []Record `json:"channels"`
}

// isoMillis matches the ISO-8601 form browsers emit for Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NewDataset sorts records by display name and stamps them with now.
func NewDataset(records []Record, now time.Time) Dataset {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortRecords(sorted)
	return Dataset{
		GeneratedAt: now.UTC().Format(isoMillis),
		Channels:    sorted,
	}
}

// SortRecords orders records by display name, ignoring case and accents.
func SortRecords(records []Record) {
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(records[i].DisplayName(), records[j].DisplayName()) < 0
	})
}

// WriteDataset writes ds as indented JSON, creating parent directories and
// replacing any previous file.
func WriteDataset(path string, ds Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// ReadDataset loads a dataset written by WriteDataset.
func ReadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return ds, nil
}

// Filter returns records whose title or handle contains query, ignoring case.
// An empty query returns all records.
func (ds Dataset) Filter(query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ds.Channels
	}
	var out []Record
	for _, r := range ds.Channels {
		if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Handle), q) {
			out = append(out, r)
		}
	}
	return out
}
