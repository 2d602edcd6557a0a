package pbi18n

import "testing"

func TestFullVersion(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	GitCommit = "unknown"
	if got := FullVersion(); got != Version {
		t.Errorf("FullVersion() = %q, want %q", got, Version)
	}

	GitCommit = "0123456789abcdef"
	if got := FullVersion(); got != Version+"+0123456" {
		t.Errorf("FullVersion() = %q", got)
	}
	if got := UserAgent(); got != "pbi18n/"+Version+"+0123456" {
		t.Errorf("UserAgent() = %q", got)
	}
}
