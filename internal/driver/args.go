package driver

import "github.com/vk/enginebuild/internal/buildcfg"

// Args renders a configuration and entry file into compiler command-line
// flags. The entry file always comes first.
func Args(entryFile string, cfg buildcfg.Configuration) []string {
	args := []string{
		entryFile,
		"-backend=" + cfg.Backend.String(),
		"-opt=" + cfg.Optimization.String(),
	}
	if !cfg.BoundsChecking {
		args = append(args, "-no-bounds-check")
	}

	switch cfg.OutputType {
	case buildcfg.OutputNone:
		args = append(args, "-no-output")
	default:
		args = append(args, "-out="+cfg.OutputFile())
	}

	for _, dir := range cfg.ImportPaths {
		args = append(args, "-import_dir="+dir)
	}
	return args
}
