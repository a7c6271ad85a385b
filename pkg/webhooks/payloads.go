package webhooks

import "time"

// SlackPayload shapes the event as Slack Block Kit blocks.
func SlackPayload(event Event) map[string]any {
	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": event.Title},
		},
		{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": event.Message},
		},
	}
	if len(event.Fields) > 0 {
		fields := make([]map[string]any, 0, len(event.Fields))
		for _, f := range event.Fields {
			fields = append(fields, map[string]any{
				"type": "mrkdwn",
				"text": "*" + f.Name + "*\n" + f.Value,
			})
		}
		blocks = append(blocks, map[string]any{"type": "section", "fields": fields})
	}
	return map[string]any{"blocks": blocks}
}

// DiscordPayload shapes the event as a Discord embed.
func DiscordPayload(event Event) map[string]any {
	fields := make([]map[string]any, 0, len(event.Fields))
	for _, f := range event.Fields {
		fields = append(fields, map[string]any{
			"name":   f.Name,
			"value":  f.Value,
			"inline": true,
		})
	}
	return map[string]any{
		"embeds": []map[string]any{
			{
				"title":       event.Title,
				"description": event.Message,
				"color":       event.Color,
				"fields":      fields,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

// TeamsPayload shapes the event as a legacy Teams MessageCard.
func TeamsPayload(event Event) map[string]any {
	facts := make([]map[string]any, 0, len(event.Fields))
	for _, f := range event.Fields {
		facts = append(facts, map[string]any{"name": f.Name, "value": f.Value})
	}
	return map[string]any{
		"@type":    "MessageCard",
		"@context": "http://schema.org/extensions",
		"summary":  event.Title,
		"title":    event.Title,
		"text":     event.Message,
		"sections": []map[string]any{{"facts": facts}},
	}
}
