package clipboard

import "fmt"

// The Windows "HTML Format" clipboard payload wraps the fragment in a header
// of byte offsets into the payload itself. Offsets are fixed-width so the
// header length is known before the offsets are computed.
const (
	cfHTMLHeader   = "Version:0.9\r\nStartHTML:%010d\r\nEndHTML:%010d\r\nStartFragment:%010d\r\nEndFragment:%010d\r\n"
	cfHTMLPrefix   = "<html>\r\n<body>\r\n<!--StartFragment-->"
	cfHTMLSuffix   = "<!--EndFragment-->\r\n</body>\r\n</html>"
	cfHTMLFormatID = "HTML Format"
)

// encodeCFHTML builds the "HTML Format" payload for a UTF-8 HTML fragment.
func encodeCFHTML(fragment string) []byte {
	headerLen := len(fmt.Sprintf(cfHTMLHeader, 0, 0, 0, 0))
	startHTML := headerLen
	startFragment := startHTML + len(cfHTMLPrefix)
	endFragment := startFragment + len(fragment)
	endHTML := endFragment + len(cfHTMLSuffix)

	payload := fmt.Sprintf(cfHTMLHeader, startHTML, endHTML, startFragment, endFragment)
	return []byte(payload + cfHTMLPrefix + fragment + cfHTMLSuffix)
}
