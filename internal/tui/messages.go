package tui

import (
	"github.com/medseg/scanflow/internal/gallery"
	"github.com/medseg/scanflow/internal/model"
)

// Data loading messages.
type scansLoadedMsg struct {
	err     error
	records []model.ScanRecord
}

type sessionOpenedMsg struct {
	err     error
	session *gallery.Session
}
