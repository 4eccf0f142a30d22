package entity

// Identity represents an article author resolved against the auth provider.
// It is either a pre-existing authenticated account or a freshly minted
// ephemeral one created to attribute an anonymous submission.
type Identity struct {
	ID          string
	Email       string
	DisplayName string

	// Ephemeral marks throwaway accounts provisioned for anonymous
	// submissions. They are created once per submission and never reused.
	Ephemeral bool
}
