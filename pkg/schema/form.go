package schema

import "strings"

// FormFromRecord builds the read-only FormDefinition view from a stored
// form record. The field list goes through NormalizeFields so every
// historical container shape resolves to the same canonical list.
func FormFromRecord(id string, record map[string]any) FormDefinition {
	form := FormDefinition{
		ID:     id,
		Fields: NormalizeFields(record),
	}
	if record == nil {
		return form
	}

	form.Title = stringProp(record, "title")
	// descriptionHtml is the older property name for the same rich text.
	form.Description = stringProp(record, "description", "descriptionHtml")
	form.OwnerRef = stringProp(record, "ownerRef", "ownerId", "uid")
	form.PublicRef = stringProp(record, "publicRef", "publicId")
	form.NotifyRecipients = recipientList(record["notifyRecipients"])

	switch count := record["submissionCount"].(type) {
	case int64:
		form.SubmissionCount = count
	case int:
		form.SubmissionCount = int64(count)
	case float64:
		form.SubmissionCount = int64(count)
	}
	return form
}

func recipientList(raw any) []string {
	switch v := raw.(type) {
	case []any:
		recipients := make([]string, 0, len(v))
		for _, entry := range v {
			if addr := strings.TrimSpace(anyString(entry)); addr != "" {
				recipients = append(recipients, addr)
			}
		}
		if len(recipients) == 0 {
			return nil
		}
		return recipients
	case []string:
		recipients := make([]string, 0, len(v))
		for _, entry := range v {
			if addr := strings.TrimSpace(entry); addr != "" {
				recipients = append(recipients, addr)
			}
		}
		if len(recipients) == 0 {
			return nil
		}
		return recipients
	case string:
		parts := strings.Split(v, ",")
		recipients := make([]string, 0, len(parts))
		for _, part := range parts {
			if addr := strings.TrimSpace(part); addr != "" {
				recipients = append(recipients, addr)
			}
		}
		if len(recipients) == 0 {
			return nil
		}
		return recipients
	}
	return nil
}
