package components_test

import (
	"strings"
	"testing"

	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
	"github.com/NamanBalaji/debridget/internal/tui/components"
)

func record(id, filename string, s status.Status, progress int) task.Task {
	t := task.New(id, filename)
	t.Status = s
	t.Progress = progress

	return t
}

func TestRenderDownloadList(t *testing.T) {
	tasks := []task.Task{
		record("0", "file-0.txt", status.Downloading, 10),
		record("1", "file-1.txt", status.Cancelled, 20),
		record("2", "file-2.txt", status.Completed, 100),
		record("3", "file-3.txt", status.Downloading, 0),
		record("4", "file-4.txt", status.Error, 50),
	}

	testCases := []struct {
		name             string
		tasks            []task.Task
		selected         int
		width            int
		height           int
		shouldContain    []string
		shouldNotContain []string
	}{
		{
			name:          "Empty list",
			tasks:         []task.Task{},
			selected:      0,
			width:         80,
			height:        20,
			shouldContain: []string{"Debrid Download Manager"},
		},
		{
			name:          "List with items, no scrolling needed",
			tasks:         tasks[:2],
			selected:      1,
			width:         80,
			height:        10,
			shouldContain: []string{"file-0.txt", "file-1.txt"},
		},
		{
			name:             "Scrolling down, selected item in middle",
			tasks:            tasks,
			selected:         2,
			width:            80,
			height:           12,
			shouldContain:    []string{"file-1.txt", "file-2.txt", "file-3.txt"},
			shouldNotContain: []string{"file-0.txt", "file-4.txt"},
		},
		{
			name:             "Scrolling to top, selected first item",
			tasks:            tasks,
			selected:         0,
			width:            80,
			height:           12,
			shouldContain:    []string{"file-0.txt", "file-1.txt", "file-2.txt"},
			shouldNotContain: []string{"file-3.txt", "file-4.txt"},
		},
		{
			name:             "Scrolling to bottom, selected last item",
			tasks:            tasks,
			selected:         4,
			width:            80,
			height:           12,
			shouldContain:    []string{"file-2.txt", "file-3.txt", "file-4.txt"},
			shouldNotContain: []string{"file-0.txt", "file-1.txt"},
		},
		{
			name:          "Zero height",
			tasks:         tasks,
			selected:      0,
			width:         80,
			height:        0,
			shouldContain: []string{""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := components.RenderDownloadList(tc.tasks, tc.selected, tc.width, tc.height)

			for _, check := range tc.shouldContain {
				if check == "" {
					if strings.TrimSpace(output) != "" {
						t.Errorf("expected visually empty output, but got %q", output)
					}
				} else if !strings.Contains(output, check) {
					t.Errorf("expected output to contain %q, but it did not.\nOutput:\n%s", check, output)
				}
			}

			for _, check := range tc.shouldNotContain {
				if strings.Contains(output, check) {
					t.Errorf("expected output to NOT contain %q, but it did.\nOutput:\n%s", check, output)
				}
			}
		})
	}
}
