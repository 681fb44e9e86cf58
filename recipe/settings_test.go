package recipe

import "testing"

func TestSettingsApply(t *testing.T) {
	var s Settings
	if err := s.Apply("os=Linux", "compiler=gcc", "compiler.version=13", "build_type = Release", "arch=x86_64"); err != nil {
		t.Fatal(err)
	}
	want := Settings{OS: "Linux", Compiler: "gcc", CompilerVersion: "13", BuildType: "Release", Arch: "x86_64"}
	if s != want {
		t.Fatalf("Apply() = %+v, want %+v", s, want)
	}
	if got, want := s.String(), "arch=x86_64,build_type=Release,compiler=gcc,compiler.version=13,os=Linux"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if err := s.Apply("os"); err == nil {
		t.Error("Apply without '=' should fail")
	}
	if err := s.Apply("compiler.cppstd=17"); err == nil {
		t.Error("Apply of an unknown setting should fail")
	}
}

func TestSettingsRestrict(t *testing.T) {
	s := Settings{OS: "Windows", Compiler: "msvc", CompilerVersion: "194", BuildType: "Debug", Arch: "x86_64"}

	got := s.Restrict([]string{"os", "arch"})
	if want := (Settings{OS: "Windows", Arch: "x86_64"}); got != want {
		t.Errorf("Restrict(os, arch) = %+v, want %+v", got, want)
	}
	got = s.Restrict([]string{"compiler"})
	if want := (Settings{Compiler: "msvc", CompilerVersion: "194"}); got != want {
		t.Errorf("Restrict(compiler) = %+v, want %+v", got, want)
	}
	if got := s.Restrict(nil); got != (Settings{}) {
		t.Errorf("Restrict(nil) = %+v, want zero", got)
	}
}
