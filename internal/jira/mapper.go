package jira

import (
	"time"

	"github.com/rs/zerolog/log"
)

// MapIssue transforms a Jira DTO into a domain Issue. Timestamps that cannot
// be parsed are logged and left nil; the raw text is kept.
func MapIssue(item IssueDTO) Issue {
	issue := Issue{
		Key:     item.Key,
		Summary: item.Fields.Summary.Value,
	}

	if status, ok := item.Fields.Status.Get(); ok {
		issue.Status = status.Name
		issue.StatusCategory = status.StatusCategory.Name
	}

	issue.CreatedRaw = item.Fields.Created.Value
	issue.Created = parseField(item.Key, "created", issue.CreatedRaw)

	issue.ResolutionRaw = item.Fields.ResolutionDate.Value
	issue.Resolved = parseField(item.Key, "resolutiondate", issue.ResolutionRaw)

	if user, ok := item.Fields.Assignee.Get(); ok && (user.AccountID != "" || user.Name != "") {
		issue.Assignee = &Assignee{
			AccountID:   user.AccountID,
			Name:        user.Name,
			DisplayName: user.DisplayName,
			Email:       user.EmailAddress,
			AvatarURL:   user.AvatarURLs["48x48"],
		}
	}

	issue.Sprint = sprintLabel(item.Fields)

	if changelog, ok := item.Changelog.Get(); ok {
		issue.Changelog = make([]History, 0, len(changelog.Histories))
		for _, h := range changelog.Histories {
			history := History{ID: h.ID, Created: h.Created, Items: make([]ChangeItem, 0, len(h.Items))}
			for _, itm := range h.Items {
				history.Items = append(history.Items, ChangeItem{
					Field:      itm.Field,
					FromString: itm.FromString,
					ToString:   itm.ToString,
				})
			}
			issue.Changelog = append(issue.Changelog, history)
		}
	}

	return issue
}

func parseField(key, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := ParseTime(raw)
	if err != nil {
		log.Warn().Err(&ParseError{IssueKey: key, Field: field, Value: raw, Err: err}).Msg("Ignoring unparseable timestamp")
		return nil
	}
	return &t
}

// sprintLabel prefers the plain "sprint" field, then the most recent entry of
// the sprint custom fields.
func sprintLabel(f FieldsDTO) string {
	if s, ok := f.Sprint.Get(); ok && s != "" {
		return s
	}
	for _, field := range []Optional[[]SprintDTO]{f.Sprints, f.LegacySprints} {
		sprints, ok := field.Get()
		if !ok {
			continue
		}
		for i := len(sprints) - 1; i >= 0; i-- {
			if sprints[i].Name != "" {
				return sprints[i].Name
			}
		}
	}
	return ""
}
