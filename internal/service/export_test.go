package service

// FixLazyImagesForTest exposes fixLazyImages for tests.
func FixLazyImagesForTest(htmlContent []byte) []byte {
	return fixLazyImages(htmlContent)
}

// SortArticlesForTest exposes the date ordering used by the generator.
var SortArticlesForTest = sortByPubDate

// BodyInnerHTMLForTest exposes bodyInnerHTML for tests.
func BodyInnerHTMLForTest(htmlContent []byte) string {
	return bodyInnerHTML(htmlContent)
}
