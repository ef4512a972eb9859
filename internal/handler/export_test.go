package handler

// Export for testing
type GenerateResponse = generateResponse
type RunResponse = runResponse
type ArchivedArticleResponse = archivedArticleResponse

var (
	WriteServiceError = writeServiceError
	Itoa              = itoa
)
