package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStartsWithInit(t *testing.T) {
	doc := NewDocument(32)
	assert.Equal(t, []byte{ESC, '@'}, doc.Bytes()[:2])
}

func TestKeyValuePadsToWidth(t *testing.T) {
	doc := NewDocument(32)
	doc.Reset() // drop the init bytes so the line is easy to inspect
	out := doc.KeyValue("Subtotal", "USD 6.40").Bytes()[2:]

	line := string(out[:len(out)-1]) // strip trailing LF
	assert.Len(t, line, 32)
	assert.Equal(t, "Subtotal", line[:8])
	assert.Equal(t, "USD 6.40", line[len(line)-8:])
}

func TestKeyValueOverflowKeepsOneSpace(t *testing.T) {
	doc := NewDocument(10)
	doc.Reset()
	out := string(doc.KeyValue("A very long key", "value").Bytes()[2:])
	assert.Equal(t, "A very long key value\n", out)
}

func TestItemLineFormat(t *testing.T) {
	doc := NewDocument(32)
	doc.Reset()
	out := string(doc.ItemLine(2, "Sugar 2kg", "USD 7.36").Bytes()[2:])

	assert.True(t, bytes.HasPrefix([]byte(out), []byte("2x Sugar 2kg")))
	assert.True(t, bytes.HasSuffix([]byte(out), []byte("USD 7.36\n")))
	assert.Len(t, out, 33) // 32 chars plus LF
}

func TestItemDetailOmitsZeroDiscount(t *testing.T) {
	doc := NewDocument(32)
	doc.Reset()
	out := string(doc.ItemDetail(2, "USD 3.20", 0, 15).Bytes()[2:])
	assert.Equal(t, "   2 @ USD 3.20  VAT 15%\n", out)

	doc.Reset()
	out = string(doc.ItemDetail(2, "USD 3.20", 7.5, 15).Bytes()[2:])
	assert.Equal(t, "   2 @ USD 3.20  -7.5%  VAT 15%\n", out)
}

func TestQRCodeEmbedsPayload(t *testing.T) {
	doc := NewDocument(32)
	out := doc.QRCode("https://verify.example/ABCD-1234").Bytes()

	assert.True(t, bytes.Contains(out, []byte("https://verify.example/ABCD-1234")))
	// Store command length covers the payload plus the 3 command bytes.
	idx := bytes.Index(out, []byte{GS, '(', 'k', 35, 0, 49, 80, 48})
	assert.NotEqual(t, -1, idx)
}

func TestCutAndSeparator(t *testing.T) {
	doc := NewDocument(16)
	doc.Reset()
	out := doc.Separator('-').Cut().Bytes()[2:]

	assert.True(t, bytes.HasPrefix(out, []byte("----------------\n")))
	assert.True(t, bytes.HasSuffix(out, []byte{GS, 'V', 0x00}))
}
