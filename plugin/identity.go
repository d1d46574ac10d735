package plugin

import "strings"

// requestDelimiter separates chained loader prefixes in a raw module request,
// e.g. "style-loader!css-loader!src/app.css".
const requestDelimiter = "!"

// CanonicalPath returns the part of request after the last loader delimiter
// with every backslash turned into a forward slash. An empty request yields
// an empty path.
func CanonicalPath(request string) string {
	if i := strings.LastIndex(request, requestDelimiter); i >= 0 {
		request = request[i+len(requestDelimiter):]
	}
	return strings.ReplaceAll(request, `\`, "/")
}
