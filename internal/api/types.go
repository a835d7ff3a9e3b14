package api

import (
	"fmt"
	"strings"

	"github.com/agisilaos/tod/internal/due"
)

type Paginated[T any] struct {
	Results    []T    `json:"results"`
	NextCursor string `json:"next_cursor"`
}

// Priority is the API value: 1 is no priority (shown as p4), 4 is the highest (p1).
type Priority int

const (
	PriorityNone   Priority = 1
	PriorityLow    Priority = 2
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 4
)

func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "p1", "1":
		return PriorityHigh, nil
	case "p2", "2":
		return PriorityMedium, nil
	case "p3", "3":
		return PriorityLow, nil
	case "p4", "4", "none":
		return PriorityNone, nil
	}
	return 0, fmt.Errorf("invalid priority %q; use p1, p2, p3 or p4", value)
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "p1"
	case PriorityMedium:
		return "p2"
	case PriorityLow:
		return "p3"
	default:
		return "p4"
	}
}

type Task struct {
	ID          string        `json:"id"`
	Content     string        `json:"content"`
	Description string        `json:"description"`
	ProjectID   string        `json:"project_id"`
	SectionID   string        `json:"section_id"`
	ParentID    string        `json:"parent_id"`
	Labels      []string      `json:"labels"`
	Priority    Priority      `json:"priority"`
	Checked     bool          `json:"checked"`
	Due         *due.Info     `json:"due"`
	Deadline    *due.Deadline `json:"deadline"`
	Duration    *Duration     `json:"duration"`
	ChildOrder  int           `json:"child_order"`
	AddedAt     string        `json:"added_at"`
	CompletedAt string        `json:"completed_at"`
	UpdatedAt   string        `json:"updated_at"`
	NoteCount   int           `json:"note_count"`
}

type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id"`
	Color       string `json:"color"`
	IsArchived  bool   `json:"is_archived"`
	IsShared    bool   `json:"is_shared"`
	IsFavorite  bool   `json:"is_favorite"`
	IsInbox     bool   `json:"inbox_project"`
	ViewStyle   string `json:"view_style"`
	Description string `json:"description"`
	ChildOrder  int    `json:"child_order"`
}

type Section struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order"`
	IsArchived   bool   `json:"is_archived"`
	IsCollapsed  bool   `json:"is_collapsed"`
}

type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Order      int    `json:"order"`
	IsFavorite bool   `json:"is_favorite"`
}

type Comment struct {
	ID         string      `json:"id"`
	TaskID     string      `json:"item_id"`
	ProjectID  string      `json:"project_id"`
	Content    string      `json:"content"`
	PostedAt   string      `json:"posted_at"`
	Attachment *Attachment `json:"file_attachment"`
}

type Attachment struct {
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	FileURL      string `json:"file_url"`
	ResourceType string `json:"resource_type"`
	URL          string `json:"url"`
	Title        string `json:"title"`
}

func (a Attachment) Link() string {
	if a.FileURL != "" {
		return a.FileURL
	}
	return a.URL
}

func (a Attachment) Name() string {
	switch {
	case a.FileName != "":
		return a.FileName
	case a.Title != "":
		return a.Title
	default:
		return a.Link()
	}
}

type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	TzInfo   TzInfo `json:"tz_info"`
}

type TzInfo struct {
	Timezone  string `json:"timezone"`
	GMTString string `json:"gmt_string"`
}
