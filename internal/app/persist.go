package app

import (
	"fmt"

	"go.uber.org/zap"

	"pixelforge/internal/image"
	"pixelforge/internal/project"
	"pixelforge/pkg/colorutil"
)

// Project returns a deep copy of the document as last committed. A coalesced
// stroke still being dragged is not included.
func (s *State) Project() *project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *State) snapshot() *project.Project {
	return &project.Project{
		Name:        s.name,
		Width:       s.width,
		Height:      s.height,
		Layers:      s.history.Current().Layers,
		Palette:     append([]colorutil.Color(nil), s.palette...),
		Background:  s.background,
		GridEnabled: s.gridEnabled,
		GridColor:   s.gridColor,
		GridSize:    s.gridSize,
	}
}

// LoadProject replaces the document with a copy of p, clears history and
// activates the top layer. p must be valid, as produced by project.Unmarshal.
func (s *State) LoadProject(p *project.Project) {
	s.load(p, "")
}

func (s *State) load(p *project.Project, path string) {
	p = p.Clone()
	_ = s.mutate(func(q *eventQueue) error {
		s.install(p)
		s.projectPath = path
		q.add(EventProjectLoaded, p.Name)
		q.add(EventLayersChanged, nil)
		q.add(EventHistoryChanged, nil)
		q.add(EventSettingsChanged, nil)
		return nil
	})
	s.log.Info("project loaded", zap.String("name", p.Name), zap.Int("layers", len(p.Layers)))
}

// NewCanvas starts an empty project of the given size, each side at most
// project.MaxSize.
func (s *State) NewCanvas(name string, width, height int) error {
	if width <= 0 || height <= 0 || width > project.MaxSize || height > project.MaxSize {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	p := project.New(name)
	p.Width, p.Height = width, height
	s.load(p, "")
	return nil
}

// OpenProject loads a project file. On error the current document is kept.
func (s *State) OpenProject(path string) error {
	p, err := project.Load(path)
	if err != nil {
		s.Emit(EventNotice, Notice{Level: NoticeError, Message: "Failed to load project"})
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	s.load(p, path)
	s.Emit(EventNotice, Notice{Level: NoticeSuccess, Message: "Project loaded"})
	return nil
}

// SaveProject writes the document to path and remembers it for later saves.
func (s *State) SaveProject(path string) error {
	p := s.Project()
	if err := p.Save(path); err != nil {
		s.Emit(EventNotice, Notice{Level: NoticeError, Message: "Failed to save project"})
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	_ = s.mutate(func(q *eventQueue) error {
		s.projectPath = path
		s.modified = false
		q.add(EventProjectSaved, path)
		q.notice(NoticeSuccess, "Project saved")
		return nil
	})
	s.log.Info("project saved", zap.String("path", path))
	return nil
}

// ExportPNG writes the composite to path, each cell scale pixels wide.
func (s *State) ExportPNG(path string, scale int) error {
	p := s.Project()
	if err := p.WritePNG(path, scale); err != nil {
		s.Emit(EventNotice, Notice{Level: NoticeError, Message: "Failed to export PNG"})
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	s.Emit(EventNotice, Notice{Level: NoticeSuccess, Message: "PNG exported"})
	return nil
}

// ImportImage decodes an image file, scales it to the canvas and replaces
// the active layer's pixels with it as one undo step.
func (s *State) ImportImage(path string) error {
	w, h := s.Size()
	m, err := image.Load(path, w, h)
	if err != nil {
		s.Emit(EventNotice, Notice{Level: NoticeError, Message: "Failed to import image"})
		return err
	}
	if err := s.ReplaceActivePixels(m); err != nil {
		return err
	}
	s.Emit(EventNotice, Notice{Level: NoticeSuccess, Message: "Image imported"})
	return nil
}
