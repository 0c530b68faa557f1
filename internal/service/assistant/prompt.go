package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/analyzer"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
)

// Settings keys read when assembling prompts. All are optional; the defaults
// below keep the assistant usable on an empty database.
const (
	settingCollegeName   = "college_name"
	settingAssistantTone = "assistant_instructions"
	settingCourtName     = "court_name"
)

const defaultInstructions = "You are a helpful voice assistant at the reception desk. " +
	"Answer briefly and only from the records provided. If the records do not " +
	"cover the question, say so instead of guessing. Replies are read aloud, " +
	"so avoid lists, markdown, and long sentences."

func (s *Service) collegePrompt(ctx context.Context, facts string) string {
	name := s.settingOr(ctx, settingCollegeName, "the college")
	tone := s.settingOr(ctx, settingAssistantTone, defaultInstructions)

	var b strings.Builder
	fmt.Fprintf(&b, "You are the front-desk voice assistant of %s.\n%s\n", name, tone)
	if facts != "" {
		b.WriteString("\nCurrent records:\n")
		b.WriteString(facts)
	}
	return b.String()
}

func (s *Service) courtPrompt(ctx context.Context, facts string) string {
	name := s.settingOr(ctx, settingCourtName, "the district court")
	tone := s.settingOr(ctx, settingAssistantTone, defaultInstructions)

	var b strings.Builder
	fmt.Fprintf(&b, "You are the help-desk voice assistant of %s. "+
		"Visitors ask where offices are and how filings work.\n%s\n", name, tone)
	if facts != "" {
		b.WriteString("\nOffice directory:\n")
		b.WriteString(facts)
	}
	return b.String()
}

func (s *Service) settingOr(ctx context.Context, key, fallback string) string {
	v, err := s.catalog.GetSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			zap.L().Warn("setting read failed", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	return v
}

// fetchFacts executes a fetch plan against the catalog and renders the rows
// as plain lines the model can quote from.
func (s *Service) fetchFacts(ctx context.Context, plan []analyzer.TableFetch) string {
	var b strings.Builder
	for _, f := range plan {
		switch f.Table {
		case "courses":
			rows, err := s.catalog.ListCourses(ctx, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, c := range rows {
				fmt.Fprintf(&b, "Course: %s (%s), duration %s, fees %d rupees per year, eligibility: %s\n",
					c.Name, c.Code, c.Duration, c.Fees, c.Eligibility)
			}
		case "staff_members":
			rows, err := s.catalog.ListStaff(ctx, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, m := range rows {
				fmt.Fprintf(&b, "Staff: %s, %s, cabin %s, phone %s, email %s\n",
					m.Name, m.Designation, m.Cabin, m.Phone, m.Email)
			}
		case "events":
			rows, err := s.catalog.ListEvents(ctx, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, e := range rows {
				fmt.Fprintf(&b, "Event: %s at %s on %s: %s\n",
					e.Title, e.Venue, e.StartsAt.Format("2 January 2006 3:04 PM"), e.Description)
			}
		case "notices":
			rows, err := s.catalog.ListNotices(ctx, true, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, n := range rows {
				fmt.Fprintf(&b, "Notice (%s): %s. %s\n", n.Category, n.Title, n.Body)
			}
		case "departments":
			rows, err := s.catalog.ListDepartments(ctx, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, d := range rows {
				fmt.Fprintf(&b, "Department: %s (%s). %s\n", d.Name, d.Code, d.Description)
				data, err := s.catalog.ListDepartmentData(ctx, d.ID, f.Limit)
				if err != nil {
					continue
				}
				for _, row := range data {
					fmt.Fprintf(&b, "  %s / %s: %s\n", d.Code, row.Title, row.Content)
				}
			}
		case "scholarships":
			rows, err := s.catalog.ListScholarships(ctx, f.Limit)
			if err != nil {
				zap.L().Warn("fact fetch failed", zap.String("table", f.Table), zap.Error(err))
				continue
			}
			for _, sc := range rows {
				fmt.Fprintf(&b, "Scholarship: %s by %s, amount %s, deadline %s, eligibility: %s\n",
					sc.Name, sc.Provider, sc.Amount, sc.Deadline, sc.Eligibility)
			}
		}
	}
	return b.String()
}

func (s *Service) courtFacts(ctx context.Context, limit int) string {
	offices, err := s.catalog.ListCourtOffices(ctx, limit)
	if err != nil {
		zap.L().Warn("fact fetch failed", zap.String("table", "court_offices"), zap.Error(err))
		return ""
	}
	var b strings.Builder
	for _, o := range offices {
		fmt.Fprintf(&b, "Office: %s, room %s, %s, %s floor, services: %s\n",
			o.Name, o.RoomNumber, o.Building, o.Floor, o.Services)
	}
	return b.String()
}

func toPointerHistory(history []models.Message) []*models.Message {
	out := make([]*models.Message, 0, len(history))
	for i := range history {
		out = append(out, &history[i])
	}
	return out
}
