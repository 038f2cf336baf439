// Package pipeline runs the install stages in order: resolve the platform,
// locate the release, download the asset, install it and make sure its
// directory is on PATH.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/nexus-xyz/nexus-install/internal/config"
	"github.com/nexus-xyz/nexus-install/internal/download"
	"github.com/nexus-xyz/nexus-install/internal/install"
	"github.com/nexus-xyz/nexus-install/internal/pathconf"
	"github.com/nexus-xyz/nexus-install/internal/platform"
	"github.com/nexus-xyz/nexus-install/internal/release"
	"github.com/nexus-xyz/nexus-install/internal/ui"
)

// Stage names a step of the install run.
type Stage string

// Stages in execution order.
const (
	StageResolving       Stage = "resolving"
	StageLocating        Stage = "locating"
	StageDownloading     Stage = "downloading"
	StageInstalling      Stage = "installing"
	StageConfiguringPath Stage = "configuring_path"
	StageDone            Stage = "done"
)

// Options configures a Pipeline.
type Options struct {
	Config *config.Config

	// Host reports the machine to install for. Nil means the running system.
	Host platform.Host

	// Elevator installs into directories the process cannot write. Nil
	// disables elevation.
	Elevator install.Elevator

	// Getenv and Setenv access the process environment. Nil means os.Getenv
	// and os.Setenv.
	Getenv func(string) string
	Setenv func(string, string) error

	// Home is the user's home directory. Empty means it is looked up with
	// LookupHome, and only when a path starting with "~" or the default
	// profile list needs it.
	Home string

	// LookupHome finds the home directory. Nil means go-homedir.
	LookupHome func() (string, error)

	UI     *ui.Writer
	Logger *slog.Logger
}

// Result summarizes a successful run.
type Result struct {
	Platform  platform.Platform
	Release   release.Ref
	Target    install.Target
	Installed *install.Installed
	Path      *pathconf.Result

	// PathWarning is set when PATH could not be persisted. It does not fail
	// the run.
	PathWarning error
}

// Pipeline drives one install run.
type Pipeline struct {
	cfg        *config.Config
	host       platform.Host
	elevator   install.Elevator
	getenv     func(string) string
	setenv     func(string, string) error
	home       string
	lookupHome func() (string, error)
	ui         *ui.Writer
	logger     *slog.Logger

	stage Stage
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		cfg:        opts.Config,
		host:       opts.Host,
		elevator:   opts.Elevator,
		getenv:     opts.Getenv,
		setenv:     opts.Setenv,
		home:       opts.Home,
		lookupHome: opts.LookupHome,
		ui:         opts.UI,
		logger:     opts.Logger,
		stage:      StageResolving,
	}

	if p.cfg == nil {
		p.cfg = config.Default()
	}

	if p.getenv == nil {
		p.getenv = os.Getenv
	}

	if p.setenv == nil {
		p.setenv = os.Setenv
	}

	if p.lookupHome == nil {
		p.lookupHome = homedir.Dir
	}

	if p.ui == nil {
		p.ui = ui.Discard()
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Stage returns the stage the pipeline is in, or last failed in.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Run executes every stage. A failure stops the run and is returned as a
// *StageError naming the stage. The download workspace is removed on every
// exit path.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	p.enter(StageResolving)

	plat, err := platform.NewResolver(p.host, p.logger).Resolve(ctx)
	if err != nil {
		return nil, p.fail(err)
	}

	res.Platform = plat
	p.ui.Infof("detected platform %s", plat)

	p.enter(StageLocating)

	locator := release.NewLocator(release.Source{
		Owner:        p.cfg.Owner,
		Repo:         p.cfg.Repo,
		AssetPrefix:  p.cfg.AssetPrefix,
		ExeSuffix:    p.cfg.ExeSuffix,
		APIBase:      p.cfg.APIBase,
		DownloadBase: p.cfg.DownloadBase,
	}, p.cfg.Version, p.cfg.Timeout, p.logger)

	ref, err := locator.Locate(ctx, plat)
	if err != nil {
		return nil, p.fail(err)
	}

	res.Release = ref
	p.ui.Infof("using %s %s", p.cfg.BinaryName, ref.Version)

	p.enter(StageDownloading)

	ws, err := download.NewWorkspace("nexus-install-")
	if err != nil {
		return nil, p.fail(err)
	}

	defer func(dir string) {
		if cerr := ws.Close(); cerr != nil {
			p.logger.Debug("removing workspace", "dir", dir, "err", cerr)
		}
	}(ws.Dir())

	p.ui.Stepf("downloading %s", ref.AssetName)

	artifact, err := download.NewFetcher(ws, p.cfg.Timeout, p.logger).FetchFirst(ctx, ref.AssetURL, ref.FallbackURL)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(StageInstalling)

	candidates := make([]string, 0, len(p.cfg.InstallDirs))
	for _, d := range p.cfg.InstallDirs {
		dir, err := p.expand(d)
		if err != nil {
			return nil, p.fail(err)
		}

		candidates = append(candidates, dir)
	}

	fallback, err := p.expand(p.cfg.DefaultDir)
	if err != nil {
		return nil, p.fail(err)
	}

	installer := install.New(p.cfg.BinaryName, p.elevator, p.logger)
	target := installer.Resolve(candidates, pathconf.SplitPath(p.getenv("PATH")), fallback)
	res.Target = target

	p.ui.Stepf("installing to %s", target.Dir)

	installed, err := installer.Install(ctx, artifact, target)
	if err != nil {
		return nil, p.fail(err)
	}

	res.Installed = installed

	if !target.ExistsInPath {
		p.enter(StageConfiguringPath)
		p.configurePath(res)
	}

	p.enter(StageDone)
	p.ui.Successf("installed %s %s to %s", p.cfg.BinaryName, ref.Version, installed.Path)

	return res, nil
}

func (p *Pipeline) configurePath(res *Result) {
	dir := res.Target.Dir

	profiles, profilesErr := p.profiles()

	conf := pathconf.New(pathconf.Options{
		Profiles: profiles,
		Persist:  !p.cfg.NoModifyPath && profilesErr == nil,
		Getenv:   p.getenv,
		Setenv:   p.setenv,
	}, p.logger)

	pr, err := conf.EnsureOnPath(dir)
	res.Path = pr

	if err != nil {
		p.warnPath(res, err)

		return
	}

	if profilesErr != nil {
		p.warnPath(res, &pathconf.PersistError{Cause: profilesErr})

		return
	}

	switch {
	case pr.Profile != "":
		p.ui.Infof("added %s to PATH in %s; open a new shell or run: %s", dir, pr.Profile, pathconf.ExportLine(dir))
	case pr.ProfileHadDir:
		p.ui.Infof("%s is already configured; open a new shell to pick it up", dir)
	case pr.Exported:
		p.ui.Infof("%s is not on your PATH; add it with: %s", dir, pathconf.ExportLine(dir))
	}
}

// profiles returns the profile candidates. Nothing is looked up when
// persistence is disabled.
func (p *Pipeline) profiles() ([]string, error) {
	if p.cfg.NoModifyPath {
		return nil, nil
	}

	if len(p.cfg.Profiles) == 0 {
		home, err := p.homeDir()
		if err != nil {
			return nil, err
		}

		return pathconf.DefaultProfiles(home, p.getenv("SHELL")), nil
	}

	profiles := make([]string, 0, len(p.cfg.Profiles))
	for _, prof := range p.cfg.Profiles {
		expanded, err := p.expand(prof)
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, expanded)
	}

	return profiles, nil
}

func (p *Pipeline) warnPath(res *Result, err error) {
	dir := res.Target.Dir

	res.PathWarning = err
	p.ui.Warningf("%v", err)
	p.ui.Infof("add %s to your PATH manually: %s", dir, pathconf.ExportLine(dir))
}

// expand resolves a leading "~" in path, looking up the home directory
// only when one is present.
func (p *Pipeline) expand(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := p.homeDir()
	if err != nil {
		return "", err
	}

	return install.ExpandHome(path, home), nil
}

func (p *Pipeline) homeDir() (string, error) {
	if p.home != "" {
		return p.home, nil
	}

	home, err := p.lookupHome()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	if home == "" {
		return "", fmt.Errorf("finding home directory: empty result")
	}

	p.home = home

	return home, nil
}

func (p *Pipeline) enter(s Stage) {
	p.stage = s
	p.logger.Debug("entering stage", "stage", string(s))
}

func (p *Pipeline) fail(err error) error {
	p.logger.Debug("stage failed", "stage", string(p.stage), "err", err)

	return &StageError{Stage: p.stage, Err: err}
}
