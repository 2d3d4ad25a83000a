package permission

import "testing"

func TestPathToCode(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/system/user", "system:user:list"},
		{"/system/user/create", "system:user:create"},
		{"/system/user/5/edit", "system:user:edit"},
		{"/system/user/42/detail", "system:user:detail"},
		{"/system/log", "system:log:list"},
		{"/dashboard", "dashboard:list"},
		{"/system/user/5", "system:user:5:list"},
		{"/system/user/v2/edit", "system:user:v2:edit"},
	}

	for _, tc := range cases {
		if got := PathToCode(tc.path); got != tc.want {
			t.Fatalf("PathToCode(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPathToCodeIsStable(t *testing.T) {
	const path = "/system/role/7/edit"
	first := PathToCode(path)
	second := PathToCode(path)
	if first != second {
		t.Fatalf("expected stable result, got %q then %q", first, second)
	}
}

func TestCheckEmptyGrantDenies(t *testing.T) {
	if Check(nil, "system:user:list") {
		t.Fatal("expected deny for nil grant list")
	}
	if Check([]string{}, "*") {
		t.Fatal("expected deny for empty grant list")
	}
}

func TestCheckBareWildcardAllowsEverything(t *testing.T) {
	granted := []string{"dashboard:list", "*"}
	for _, code := range []string{"system:user:list", "anything", "a:b:c:d:e", ""} {
		if !Check(granted, code) {
			t.Fatalf("expected %q allowed by bare wildcard", code)
		}
	}
}

func TestCheckExactMatch(t *testing.T) {
	granted := []string{"system:user:list"}
	if !Check(granted, "system:user:list") {
		t.Fatal("expected exact code allowed")
	}
	if Check(granted, "system:user:create") {
		t.Fatal("expected sibling code denied")
	}
}

func TestCheckPrefixWildcard(t *testing.T) {
	granted := []string{"a:b:*"}
	if !Check(granted, "a:b:c") || !Check(granted, "a:b:d") {
		t.Fatal("expected a:b:* to allow a:b:c and a:b:d")
	}
	if Check(granted, "a:x:y") {
		t.Fatal("expected a:b:* to deny a:x:y")
	}
	if Check(granted, "a:b") {
		t.Fatal("expected a:b:* to deny the bare prefix a:b")
	}
}

func TestCheckModuleWildcard(t *testing.T) {
	granted := []string{"system:*"}
	if !Check(granted, "system:role:list") {
		t.Fatal("expected system:* to allow system:role:list")
	}
	if !Check(granted, "system:user:5:edit") {
		t.Fatal("expected system:* to allow deep codes")
	}
	if Check(granted, "dashboard:list") {
		t.Fatal("expected system:* to deny other modules")
	}
}

func TestCheckNarrowWildcardDoesNotCrossResources(t *testing.T) {
	granted := []string{"system:user:*"}
	if Check(granted, "system:role:list") {
		t.Fatal("expected system:user:* to deny system:role:list")
	}
}

func TestSetAllowsPath(t *testing.T) {
	s := NewSet([]string{"system:user:list", "system:user:edit"})
	if !s.AllowsPath("/system/user") {
		t.Fatal("expected list page allowed")
	}
	if !s.AllowsPath("/system/user/12/edit") {
		t.Fatal("expected edit page allowed")
	}
	if s.AllowsPath("/system/user/create") {
		t.Fatal("expected create page denied")
	}
}

func TestSetZeroValueDenies(t *testing.T) {
	var s Set
	if s.Allows("*") {
		t.Fatal("expected zero Set to deny")
	}
}

func TestNewSetIgnoresEmptyCodes(t *testing.T) {
	s := NewSet([]string{"", "system:user:list", "system:user:list"})
	if s.Len() != 1 {
		t.Fatalf("expected 1 distinct code, got %d", s.Len())
	}
}

func TestCheckResultsStableAcrossCalls(t *testing.T) {
	s := NewSet([]string{"system:*"})
	for i := 0; i < 100; i++ {
		if !s.Allows("system:dict:delete") {
			t.Fatalf("iteration %d: expected allow", i)
		}
	}
}
