package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/store"
)

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)
	want := []string{"apply", "augment", "cache", "completion", "ops", "runs", "serve"}
	for _, name := range want {
		if !contains(got, name) {
			t.Errorf("root command is missing %q (have %v)", name, got)
		}
	}
}

func TestOpsJSON(t *testing.T) {
	out := captureStdout(t, func() {
		if err := Execute(context.Background(), &bytes.Buffer{}, []string{"ops", "--json"}); err != nil {
			t.Fatalf("ops: %v", err)
		}
	})
	var infos []augment.Info
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode ops output: %v", err)
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	if diff := cmp.Diff(augment.Names(), names); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestAugmentCommand(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"cat/a.png", "dog/b.png"} {
		r := raster.New(5, 5, 3)
		r.Fill(200)
		if err := dataset.Save(filepath.Join(root, "images", "original", "train", name), r); err != nil {
			t.Fatal(err)
		}
	}
	runsDir := filepath.Join(root, "runs")
	cfg := fmt.Sprintf(`
image_dir = %q
seed = 3

[cache]
dir = %q

[store]
dir = %q

[[augmentations]]
name = "invert"

[[augmentations]]
name = "flip_horizontal"
`, filepath.Join(root, "images"), filepath.Join(root, "cache"), runsDir)
	cfgPath := filepath.Join(root, "pipeline.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		err := Execute(context.Background(), &bytes.Buffer{}, []string{"augment", cfgPath, "--no-tui", "--workers", "1"})
		if err != nil {
			t.Fatalf("augment: %v", err)
		}
	})
	if !strings.Contains(out, "Augmented 2 images") {
		t.Errorf("augment output = %q", out)
	}

	inv, err := dataset.Load(filepath.Join(root, "images", "invert", "train", "cat", "a.png"))
	if err != nil {
		t.Fatalf("invert output missing: %v", err)
	}
	if inv.Pix[0] != 55 {
		t.Errorf("inverted pixel = %d, want 55", inv.Pix[0])
	}

	fs, err := store.NewFileStore(runsDir)
	if err != nil {
		t.Fatal(err)
	}
	runs, err := fs.List(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("List() = %d runs, %v; want 1 run", len(runs), err)
	}
	if runs[0].Seed != 3 || runs[0].Outputs != 4 {
		t.Errorf("recorded run = %+v", runs[0])
	}
}

func TestApplyCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	r := raster.New(3, 4, 1)
	r.Fill(10)
	if err := dataset.Save(in, r); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out", "inverted.bmp")

	captureStdout(t, func() {
		if err := Execute(context.Background(), &bytes.Buffer{}, []string{"apply", "invert", in, out}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	})
	got, err := dataset.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if got.Pix[0] != 245 {
		t.Errorf("output pixel = %d, want 245", got.Pix[0])
	}

	err = Execute(context.Background(), &bytes.Buffer{}, []string{"apply", "sharpen", in, out})
	if err == nil {
		t.Error("apply with an unknown operator should fail")
	}
}

func TestApplyOptsParams(t *testing.T) {
	opts := applyOpts{params: `{"max_theta": 30, "edge": "strict"}`, edge: "inclusive", backend: "godsp"}
	p, err := opts.operatorParams()
	if err != nil {
		t.Fatalf("operatorParams: %v", err)
	}
	want := augment.Params{MaxTheta: 30, Edge: "inclusive", Backend: "godsp"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("operatorParams mismatch (-want +got):\n%s", diff)
	}

	for _, raw := range []string{`{"max_theta":`, `{"max_thetaa": 30}`} {
		opts = applyOpts{params: raw}
		if _, err := opts.operatorParams(); !errors.Is(err, errors.ErrCodeInvalidParams) {
			t.Errorf("operatorParams(%s) error = %v, want %s", raw, err, errors.ErrCodeInvalidParams)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCompletion(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "imgaug") {
		t.Error("bash completion does not mention the command name")
	}
}
