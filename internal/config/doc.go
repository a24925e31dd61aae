// Package config holds gridterm's settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	1. Built-in defaults   (Default)
//	2. Config file         (TOML or YAML, by extension)
//	3. Environment         (GRIDTERM_* variables)
//
// Command line flags are applied by the caller on top of the result.
//
// # Basic Usage
//
//	cfg, err := config.Load("gridterm.toml")
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.Window.Width, cfg.Loop.TargetFPS)
//
// Every setting has a dot-separated path, such as "loop.target_fps", which
// is how files and environment variables address it.
package config
