package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldVersion, oldSHA, oldTime })

	Version, GitSHA, BuildTime = "0.3.1", "abc1234", "2026-01-02T03:04:05Z"
	want := "radar 0.3.1 (commit abc1234, built 2026-01-02T03:04:05Z)"
	if got := String("radar"); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
