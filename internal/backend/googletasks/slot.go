// Package googletasks implements tasklist.Slot on a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"gtodo/internal/config"
	"gtodo/internal/tasklist"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for a single API call.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// DefaultRate paces API calls; a full overwrite issues one call per task.
var DefaultRate = rate.Every(100 * time.Millisecond)

var (
	// ErrUnauthorized means the stored token was rejected.
	ErrUnauthorized = errors.New("token expired or revoked (run: gtodo login)")

	// ErrAmbiguous means more than one task list carries the slot name.
	ErrAmbiguous = errors.New("ambiguous list name")

	// ErrTimeout means an API call did not finish within APITimeout.
	ErrTimeout = errors.New("request timed out")
)

// Slot stores the task list in the Google Tasks list titled listName.
// Subtasks are ignored.
type Slot struct {
	svc      *tasks.Service
	listName string
	limiter  *rate.Limiter
}

// New creates a Slot from the OAuth files in cfg.Dir.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Slot, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.Slot)
}

// NewWithHTTPClient creates a Slot with a custom HTTP client. Extra options
// (such as option.WithEndpoint) are passed to the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listName string, opts ...option.ClientOption) (*Slot, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Slot{
		svc:      svc,
		listName: listName,
		limiter:  rate.NewLimiter(DefaultRate, 5),
	}, nil
}

// SetLimiter replaces the API rate limiter.
func (s *Slot) SetLimiter(l *rate.Limiter) {
	s.limiter = l
}

// Load implements tasklist.Slot.
func (s *Slot) Load(ctx context.Context) ([]tasklist.Task, error) {
	list, err := s.findList(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, tasklist.ErrSlotEmpty
	}

	items, err := s.listItems(ctx, list.Id)
	if err != nil {
		return nil, err
	}

	result := make([]tasklist.Task, 0, len(items))
	for _, item := range items {
		result = append(result, tasklist.Task{
			Text:        item.Title,
			IsCompleted: item.Status == statusCompleted,
		})
	}
	return result, nil
}

// Save implements tasklist.Slot. The new tasks are inserted ahead of the
// existing ones, which are deleted only once every insert has succeeded.
// A failed save can leave duplicates behind but never loses stored tasks.
func (s *Slot) Save(ctx context.Context, items []tasklist.Task) error {
	list, err := s.findList(ctx)
	if err != nil {
		return err
	}
	if list == nil {
		list, err = s.createList(ctx)
		if err != nil {
			return err
		}
	}

	existing, err := s.listItems(ctx, list.Id)
	if err != nil {
		return err
	}

	previous := ""
	for _, t := range items {
		created, err := s.insertItem(ctx, list.Id, previous, t)
		if err != nil {
			return err
		}
		previous = created.Id
	}

	for _, item := range existing {
		if err := s.deleteItem(ctx, list.Id, item.Id); err != nil {
			return err
		}
	}
	return nil
}

// findList returns the list titled s.listName (case-insensitive, trimmed),
// or nil if there is none.
func (s *Slot) findList(ctx context.Context) (*tasks.TaskList, error) {
	want := strings.ToLower(strings.TrimSpace(s.listName))

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var matches []*tasks.TaskList
	err := s.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == want {
				matches = append(matches, list)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, s.listName)
	}
}

func (s *Slot) createList(ctx context.Context) (*tasks.TaskList, error) {
	ctx, cancel, err := s.call(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	list, err := s.svc.Tasklists.Insert(&tasks.TaskList{Title: s.listName}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return list, nil
}

// listItems returns the top-level tasks of a list in display order.
func (s *Slot) listItems(ctx context.Context, listID string) ([]*tasks.Task, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err := s.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				if item.Parent != "" {
					continue
				}
				items = append(items, item)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	// Positions are zero-padded decimal strings.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items, nil
}

func (s *Slot) deleteItem(ctx context.Context, listID, itemID string) error {
	ctx, cancel, err := s.call(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := s.svc.Tasks.Delete(listID, itemID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func (s *Slot) insertItem(ctx context.Context, listID, previous string, t tasklist.Task) (*tasks.Task, error) {
	ctx, cancel, err := s.call(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	status := statusNeedsAction
	if t.IsCompleted {
		status = statusCompleted
	}
	call := s.svc.Tasks.Insert(listID, &tasks.Task{Title: t.Text, Status: status})
	if previous != "" {
		call = call.Previous(previous)
	}
	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return created, nil
}

// call waits for the limiter and returns a context bounded by APITimeout.
func (s *Slot) call(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	return ctx, cancel, nil
}

// wrapError maps API errors onto the package's sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		case http.StatusNotFound:
			return fmt.Errorf("not found: %w", err)
		}
	}

	return err
}
