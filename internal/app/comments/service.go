package comments

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agisilaos/tod/internal/api"
)

const TruncatedMarker = "[TRUNCATED]"

type AddInput struct {
	Content string
	TaskID  string
}

func BuildAddPayload(in AddInput) (map[string]any, error) {
	content := strings.TrimSpace(in.Content)
	taskID := strings.TrimSpace(in.TaskID)
	if content == "" {
		return nil, errors.New("--content is required")
	}
	if taskID == "" {
		return nil, errors.New("--task is required")
	}
	return map[string]any{"content": content, "task_id": taskID}, nil
}

func LatestFirst(comments []api.Comment) []api.Comment {
	type posted struct {
		comment api.Comment
		at      time.Time
	}
	items := make([]posted, len(comments))
	for i, comment := range comments {
		at, _ := time.Parse(time.RFC3339Nano, comment.PostedAt)
		items[i] = posted{comment: comment, at: at}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})
	out := make([]api.Comment, len(items))
	for i, item := range items {
		out[i] = item.comment
	}
	return out
}

func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:max]), " \n") + " " + TruncatedMarker
}
