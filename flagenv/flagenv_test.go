// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flagenv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

const hdr = "/p/components/espressif__esp_lvgl_adapter/src/display/ports/lvgl_port_alignment.h"

func TestSanitize(t *testing.T) {
	var fi gccutil.ForceInclude
	for _, tc := range []struct {
		name string
		in   Value
		want Value
	}{
		{
			name: "list",
			in:   List("-O2", "-include", "-Wall", hdr),
			want: List("-O2", "-include", hdr, "-Wall"),
		},
		{
			name: "string_lone_include",
			in:   String("-O2 -include -c main.c"),
			want: String("-O2 -c main.c"),
		},
		{
			name: "string_moved",
			in:   String(`-O2 -include -Wall "` + hdr + `"`),
			want: String("-O2 -include " + hdr + " -Wall"),
		},
		{
			name: "string_unchanged_keeps_spacing",
			in:   String("-O2   -include  " + hdr),
			want: String("-O2   -include  " + hdr),
		},
		{
			name: "string_quoted_define",
			in:   String(`-DMSG="a b" -include -c ` + hdr),
			want: String(`'-DMSG=a b' -include ` + hdr + ` -c`),
		},
		{
			name: "list_unchanged",
			in:   List("-Os", "-include", "sdkconfig.h"),
			want: List("-Os", "-include", "sdkconfig.h"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(fi, tc.in)
			if got.IsString() != tc.want.IsString() {
				t.Errorf("Sanitize(%v).IsString()=%t; want %t", tc.in, got.IsString(), tc.want.IsString())
			}
			if diff := cmp.Diff(tc.want.String(), got.String()); diff != "" {
				t.Errorf("Sanitize(%v) diff -want +got:\n%s", tc.in, diff)
			}
			if diff := cmp.Diff(tc.want.Args(), got.Args()); diff != "" {
				t.Errorf("Sanitize(%v) args diff -want +got:\n%s", tc.in, diff)
			}
		})
	}
}

func TestSanitizeWithReport(t *testing.T) {
	var fi gccutil.ForceInclude
	for _, tc := range []struct {
		name       string
		in         Value
		want       Value
		wantReport gccutil.Report
	}{
		{
			name:       "string_moved",
			in:         String("-O2 -include -Wall " + hdr),
			want:       String("-O2 -include " + hdr + " -Wall"),
			wantReport: gccutil.Report{Moved: 1},
		},
		{
			name:       "list_dropped",
			in:         List("-include", "-c", "main.c", hdr, "-include", hdr),
			want:       List("-include", hdr, "-c", "main.c"),
			wantReport: gccutil.Report{Moved: 1, DroppedIncludes: 1, DroppedHeaders: 1},
		},
		{
			name: "unchanged",
			in:   String("-O2  -g"),
			want: String("-O2  -g"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, r := SanitizeWithReport(fi, tc.in)
			if got.IsString() != tc.want.IsString() {
				t.Errorf("SanitizeWithReport(%v).IsString()=%t; want %t", tc.in, got.IsString(), tc.want.IsString())
			}
			if diff := cmp.Diff(tc.want.String(), got.String()); diff != "" {
				t.Errorf("SanitizeWithReport(%v) diff -want +got:\n%s", tc.in, diff)
			}
			if diff := cmp.Diff(tc.wantReport, r); diff != "" {
				t.Errorf("SanitizeWithReport(%v) report diff -want +got:\n%s", tc.in, diff)
			}
		})
	}
}

func TestSanitizeEnv(t *testing.T) {
	var fi gccutil.ForceInclude
	env := Env{
		"CCFLAGS":  List("-Os", "-include", "-mlongcalls", hdr),
		"CXXFLAGS": String("-std=gnu++2b -include"),
		"CPPFLAGS": List("-DESP_PLATFORM"),
		"CXXCOM":   String("$CXX -o $TARGET -c $CXXFLAGS $CCFLAGS $SOURCES"),
		"LIBS":     List("-include", "-lm"),
	}
	orig := Env{}
	for k, v := range env {
		orig[k] = v
	}
	got := SanitizeEnv(fi, env, []string{"CCFLAGS", "CXXFLAGS", "CPPFLAGS", "ASFLAGS"})

	want := map[string]string{
		"CCFLAGS":  "-Os -include " + hdr + " -mlongcalls",
		"CXXFLAGS": "-std=gnu++2b",
		"CPPFLAGS": "-DESP_PLATFORM",
		"CXXCOM":   "$CXX -o $TARGET -c $CXXFLAGS $CCFLAGS $SOURCES",
		"LIBS":     "-include -lm",
	}
	gotStr := map[string]string{}
	for k, v := range got {
		gotStr[k] = v.String()
	}
	if diff := cmp.Diff(want, gotStr); diff != "" {
		t.Errorf("SanitizeEnv diff -want +got:\n%s", diff)
	}
	if !got["CXXFLAGS"].IsString() || got["CCFLAGS"].IsString() {
		t.Errorf("SanitizeEnv changed value forms: %v", got)
	}
	for k, v := range orig {
		if env[k].String() != v.String() {
			t.Errorf("SanitizeEnv modified env[%q]=%q; want %q", k, env[k].String(), v.String())
		}
	}
	if _, ok := got["ASFLAGS"]; ok {
		t.Errorf("SanitizeEnv added missing key ASFLAGS")
	}
}

func TestSanitizeEnvNil(t *testing.T) {
	got := SanitizeEnv(gccutil.ForceInclude{}, nil, DefaultFlagVars)
	if got == nil || len(got) != 0 {
		t.Errorf("SanitizeEnv(nil)=%v; want empty env", got)
	}
}

func TestReadWriteEnv(t *testing.T) {
	in := `{"CCFLAGS": ["-Os", "-include", "-g", "lvgl_port_alignment.h"], "CXXFLAGS": "-include -c", "EMPTY": []}`
	env, err := ReadEnv(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadEnv(%q)=_, %v; want nil error", in, err)
	}
	env = SanitizeEnv(gccutil.ForceInclude{}, env, DefaultFlagVars)
	var buf bytes.Buffer
	if err := WriteEnv(&buf, env); err != nil {
		t.Fatalf("WriteEnv(...)=%v; want nil error", err)
	}
	want := `{
  "CCFLAGS": [
    "-Os",
    "-include",
    "lvgl_port_alignment.h",
    "-g"
  ],
  "CXXFLAGS": "-c",
  "EMPTY": []
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteEnv diff -want +got:\n%s", diff)
	}
}

func TestReadEnv_Error(t *testing.T) {
	for _, in := range []string{
		`{"CCFLAGS": 1}`,
		`{"CCFLAGS": ["-O2", 3]}`,
		`["-O2"]`,
		`{`,
		`{"CCFLAGS": null}`,
	} {
		_, err := ReadEnv(strings.NewReader(in))
		if err == nil {
			t.Errorf("ReadEnv(%q)=_, nil; want error", in)
		}
	}
}

func TestTemplateVars(t *testing.T) {
	tmpl := Template("$CXX -o $TARGET -c ${CXXFLAGS} $CCFLAGS $_CCCOMCOM ${SOURCES[0]} $$HOME $CXX")
	want := []string{"CXX", "TARGET", "CXXFLAGS", "CCFLAGS", "_CCCOMCOM"}
	if diff := cmp.Diff(want, tmpl.Vars()); diff != "" {
		t.Errorf("Vars() diff -want +got:\n%s", diff)
	}
}

func TestTemplateResolve(t *testing.T) {
	var fi gccutil.ForceInclude
	env := Env{
		"CXX":      String("xtensa-esp32s3-elf-g++"),
		"CXXFLAGS": List("-std=gnu++2b", "-include", "-fno-rtti", hdr),
		"CCFLAGS":  String("-Os -include"),
	}
	tmpl := Template("$CXX -o $TARGET -c ${CXXFLAGS} $CCFLAGS $_CCCOMCOM $SOURCES $$X")
	for _, tc := range []struct {
		name string
		keys []string
		want string
	}{
		{
			name: "flag_vars",
			keys: []string{"CXXFLAGS", "CCFLAGS"},
			want: "$CXX -o $TARGET -c -std=gnu++2b -include " + hdr + " -fno-rtti -Os $_CCCOMCOM $SOURCES $$X",
		},
		{
			name: "all",
			keys: nil,
			want: "xtensa-esp32s3-elf-g++ -o $TARGET -c -std=gnu++2b -include " + hdr + " -fno-rtti -Os $_CCCOMCOM $SOURCES $$X",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tmpl.Resolve(fi, env, tc.keys)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Resolve diff -want +got:\n%s", diff)
			}
		})
	}
	if string(tmpl) != "$CXX -o $TARGET -c ${CXXFLAGS} $CCFLAGS $_CCCOMCOM $SOURCES $$X" {
		t.Errorf("template was modified: %q", tmpl)
	}
}
