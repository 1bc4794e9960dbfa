package project

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/enginebuild/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// fileRoot mirrors the top level of build.hcl for gohcl decoding.
type fileRoot struct {
	EntryFile   string         `hcl:"entry_file,optional"`
	EngineDir   string         `hcl:"engine_dir,optional"`
	Diagnostics bool           `hcl:"diagnostics,optional"`
	Compiler    *compilerBlock `hcl:"compiler,block"`
	Notify      *notifyBlock   `hcl:"notify,block"`
	Remain      hcl.Body       `hcl:",remain"`
}

type compilerBlock struct {
	Command     string            `hcl:"command,optional"`
	Args        []string          `hcl:"args,optional"`
	ImportPaths []string          `hcl:"import_paths,optional"`
	Env         map[string]string `hcl:"env,optional"`
}

type notifyBlock struct {
	URL       string `hcl:"url"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
	Timeout   string `hcl:"timeout,optional"`
}

// Load reads and decodes the project file at path. A file that does not
// exist yields an empty File.
func Load(ctx context.Context, path string, vars Vars) (*File, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No project file found, using defaults.", "path", path)
			return &File{}, nil
		}
		return nil, fmt.Errorf("error accessing project file %s: %w", path, err)
	}

	f, err := Parse(ctx, src, path, vars)
	if err != nil {
		return nil, err
	}
	logger.Debug("Project file loaded.", "path", path)
	return f, nil
}

// Parse decodes project file source. filename is used in diagnostics only.
func Parse(ctx context.Context, src []byte, filename string, vars Vars) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(vars), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if unknown := unknownContent(root.Remain); len(unknown) > 0 {
		ctxlog.FromContext(ctx).Warn("Ignoring unknown project file content.", "file", filename, "unknown", unknown)
	}

	return translate(filename, &root)
}

// unknownContent lists the attributes and blocks gohcl left undecoded.
// Unknown blocks surface as diagnostics of JustAttributes.
func unknownContent(remain hcl.Body) []string {
	if remain == nil {
		return nil
	}
	attrs, diags := remain.JustAttributes()

	var unknown []string
	for name := range attrs {
		unknown = append(unknown, "attribute "+name)
	}
	for _, d := range diags {
		if d.Subject != nil {
			unknown = append(unknown, fmt.Sprintf("%s (%s)", d.Summary, d.Subject))
			continue
		}
		unknown = append(unknown, d.Summary)
	}
	sort.Strings(unknown)
	return unknown
}

func translate(filename string, root *fileRoot) (*File, error) {
	f := &File{
		EntryFile:   root.EntryFile,
		EngineDir:   root.EngineDir,
		Diagnostics: root.Diagnostics,
	}
	if c := root.Compiler; c != nil {
		f.Compiler = Compiler{
			Command:     c.Command,
			Args:        c.Args,
			ImportPaths: c.ImportPaths,
			Env:         c.Env,
		}
	}
	if n := root.Notify; n != nil {
		f.Notify = &Notify{URL: n.URL, Namespace: n.Namespace, Event: n.Event}
		if n.Timeout != "" {
			timeout, err := time.ParseDuration(n.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid notify timeout %q in %s: %w", n.Timeout, filename, err)
			}
			f.Notify.Timeout = timeout
		}
	}
	return f, nil
}

// evalContext exposes vars and a small function library to expressions.
func evalContext(vars Vars) *hcl.EvalContext {
	env := cty.MapValEmpty(cty.String)
	if len(vars.Env) > 0 {
		values := make(map[string]cty.Value, len(vars.Env))
		for k, v := range vars.Env {
			values[k] = cty.StringVal(v)
		}
		env = cty.MapVal(values)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project": cty.ObjectVal(map[string]cty.Value{
				"root": cty.StringVal(vars.Root),
				"name": cty.StringVal(vars.Name),
			}),
			"env": env,
		},
		Functions: map[string]function.Function{
			"join":   stdlib.JoinFunc,
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
		},
	}
}
