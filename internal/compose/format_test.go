package compose

import "testing"

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1234, "1.21 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		// GB is the largest unit; bigger values stay in GB.
		{1099511627776, "1024 GB"},
	}

	for _, c := range cases {
		if got := FormatFileSize(c.bytes); got != c.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", c.bytes, got, c.want)
		}
	}
}

func TestSplitCriteria(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"blank lines only", "\n\r\n  \n", nil},
		{"markers stripped", "- um\n* dois\n• três", []string{"um", "dois", "três"}},
		{"blank lines skipped", "um\n\n\ndois", []string{"um", "dois"}},
		{"bare dash is not a marker", "-\num", []string{"-", "um"}},
		{"inner markers kept", "a - b", []string{"a - b"}},
	}

	for _, c := range cases {
		got := splitCriteria(c.text)
		if len(got) != len(c.want) {
			t.Errorf("%s: splitCriteria(%q) = %v, want %v", c.name, c.text, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: line %d = %q, want %q", c.name, i, got[i], c.want[i])
			}
		}
	}
}
