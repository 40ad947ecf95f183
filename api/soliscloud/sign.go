package soliscloud

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentMD5    = "Content-MD5"
	HeaderDate          = "Date"
)

// SignedHeaders is the header set attached to a single SolisCloud request.
// The signature covers the Date value, so a fresh set is needed per call.
type SignedHeaders struct {
	Authorization string
	ContentType   string
	ContentMD5    string
	Date          string
}

func (h SignedHeaders) Map() map[string]string {
	return map[string]string{
		HeaderAuthorization: h.Authorization,
		HeaderContentType:   h.ContentType,
		HeaderContentMD5:    h.ContentMD5,
		HeaderDate:          h.Date,
	}
}

type Signer struct {
	keyID     string
	keySecret string
}

func NewSigner(keyID, keySecret string) Signer {
	return Signer{keyID: keyID, keySecret: keySecret}
}

// Sign builds the "API <key_id>:<signature>" authorization for verb and uri,
// where uri is the request path without host or query.
func (s Signer) Sign(verb string, body []byte, contentType, uri string, now time.Time) SignedHeaders {
	date := now.UTC().Format(http.TimeFormat)
	contentMD5 := ContentMD5(body)
	message := strings.Join([]string{verb, contentMD5, contentType, date, uri}, "\n")

	mac := hmac.New(sha1.New, []byte(s.keySecret))
	mac.Write([]byte(message))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return SignedHeaders{
		Authorization: fmt.Sprintf("API %s:%s", s.keyID, signature),
		ContentType:   contentType,
		ContentMD5:    contentMD5,
		Date:          date,
	}
}

func ContentMD5(body []byte) string {
	sum := md5.Sum(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}
