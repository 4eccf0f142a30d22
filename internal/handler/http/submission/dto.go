package submission

// submitResponse is the success payload for both submission endpoints.
// AIExplanation is empty when the moderator checked and approved the
// content, and otherwise tells the author why no check result exists.
type submitResponse struct {
	Slug          string `json:"slug"`
	AIExplanation string `json:"aiExplanation"`
}
