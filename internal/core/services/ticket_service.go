package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// detailTimeLayout renders timestamps on the ticket detail view.
const detailTimeLayout = "02 January 2006, 15:04"

// TicketService implements the ticket list and ticket detail views.
type TicketService struct {
	datasets ports.DatasetService
	settings Settings
	logger   *slog.Logger
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(datasets ports.DatasetService, settings Settings, logger *slog.Logger) ports.TicketService {
	return &TicketService{
		datasets: datasets,
		settings: settings,
		logger:   logger.With("component", "ticket_service"),
	}
}

// List returns one page of the filtered tickets. Recent mode orders by creation
// time, newest first; hot mode keeps only tickets with many comments. A page
// outside the result falls back to the first page.
func (s *TicketService) List(ctx context.Context, params ports.ListTicketsParams) (*domain.TicketPage, error) {
	mode, ok := domain.ParseListMode(string(params.Mode))
	if !ok {
		errs := apperrors.NewValidationErrors()
		errs.Add("mode", apperrors.ErrInvalidListMode.Error())
		return nil, errs
	}
	if err := params.State.Validate(); err != nil {
		return nil, err
	}

	d, loadErr := s.datasets.Tickets(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tickets := ApplyFilters(d, params.State)
	switch mode {
	case domain.ListHot:
		tickets = slices.DeleteFunc(tickets, func(t *domain.Ticket) bool {
			return !s.isHot(t)
		})
	default:
		sortRecent(tickets)
	}

	pageSize := max(1, s.settings.TicketsPerPage)
	total := len(tickets)
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page := params.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	items := make([]domain.TicketListItem, 0, end-start)
	for _, t := range tickets[start:end] {
		items = append(items, s.listItem(t))
	}

	return &domain.TicketPage{
		Mode:       mode,
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		Warnings:   warningsFor(loadErr),
	}, nil
}

// Get returns the full view of one ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	d, err := s.datasets.Tickets(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		s.logger.Warn("ticket lookup on empty dataset", "ticket_id", ticketID, "error", err)
	}

	t, ok := d.FindTicket(strings.TrimSpace(ticketID))
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}

	history := t.History()
	compressed := domain.CompressHistory(history, domain.TransitionalThreshold)

	return &domain.TicketDetail{
		ID:                  t.ID,
		Title:               t.Title,
		URL:                 strings.TrimRight(s.settings.BrowseURL, "/") + "/" + t.ID,
		Status:              t.Status,
		Disposition:         s.settings.Categories.Disposition(t),
		Severity:            t.Severity,
		Feature:             t.Feature,
		Platform:            t.Platform,
		Labels:              t.LabelList(),
		Stage:               t.Stage,
		Squad:               t.Squad,
		BugType:             t.BugType,
		FixVersions:         t.FixVersions,
		Device:              t.Device,
		Reporter:            t.Reporter,
		Assignee:            t.Assignee,
		Created:             s.formatTime(t.CreatedAt),
		Resolved:            s.formatTime(t.ResolvedAt),
		Tested:              s.formatTime(t.TestedAt),
		DurationToResolve:   t.DurationToResolve,
		TimeSinceLastUpdate: t.TimeSinceLastUpdate,
		Description:         t.Description,
		CommentsHTML:        t.CommentsHTML,
		CommentCount:        t.CommentCount,
		History:             nonNilEvents(history),
		CompressedHistory:   nonNilEvents(compressed),
		Timeline:            domain.BuildTimeline(compressed),
	}, nil
}

func (s *TicketService) isHot(t *domain.Ticket) bool {
	return t.CommentCount > s.settings.HotCommentThreshold
}

func (s *TicketService) listItem(t *domain.Ticket) domain.TicketListItem {
	short := t.ShortTitle()
	return domain.TicketListItem{
		ID:           t.ID,
		Title:        t.Title,
		ShortTitle:   short,
		Status:       t.Status,
		Severity:     t.Severity,
		Feature:      t.Feature,
		Squad:        t.Squad,
		Label:        truncateLabel(fmt.Sprintf("%s: %s", t.ID, short)),
		CommentCount: t.CommentCount,
		Hot:          s.isHot(t),
		CreatedAt:    t.CreatedAt,
	}
}

// formatTime renders t in the display zone, e.g. "05 March 2025, 14:30 WIB".
func (s *TicketService) formatTime(t *time.Time) string {
	if t == nil {
		return domain.NotAvailable
	}
	local := t.In(s.settings.Location)
	return local.Format(detailTimeLayout) + " " + s.settings.Location.String()
}

// sortRecent orders tickets newest first; undated tickets go last.
func sortRecent(tickets []*domain.Ticket) {
	slices.SortStableFunc(tickets, func(a, b *domain.Ticket) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return 0
		case a.CreatedAt == nil:
			return 1
		case b.CreatedAt == nil:
			return -1
		}
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
}

func truncateLabel(label string) string {
	r := []rune(label)
	if len(r) > domain.MaxLabelLength {
		return string(r[:domain.MaxLabelLength-3]) + "..."
	}
	return label
}

func nonNilEvents(events []domain.StatusEvent) []domain.StatusEvent {
	if events == nil {
		return []domain.StatusEvent{}
	}
	return events
}
