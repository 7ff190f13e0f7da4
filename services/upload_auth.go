package services

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// UploadCredentials are the short-lived parameters the client presents to the
// media CDN when uploading directly. The signature scheme follows the CDN's
// client-upload API: hex HMAC-SHA1 of token+expire under the private key.
type UploadCredentials struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
	UploadURL string `json:"uploadUrl"`
}

// UploadAuthService mints upload credentials. The private key never leaves
// the server; clients only ever see the derived signature. The upload URL is
// included so clients need no CDN configuration of their own.
type UploadAuthService struct {
	publicKey  string
	privateKey string
	uploadURL  string
	ttl        time.Duration
}

func NewUploadAuthService(publicKey, privateKey, uploadURL string, ttl time.Duration) *UploadAuthService {
	return &UploadAuthService{
		publicKey:  publicKey,
		privateKey: privateKey,
		uploadURL:  uploadURL,
		ttl:        ttl,
	}
}

func (s *UploadAuthService) Credentials() UploadCredentials {
	token := uuid.NewString()
	expire := time.Now().Add(s.ttl).Unix()
	return UploadCredentials{
		Token:     token,
		Expire:    expire,
		Signature: s.sign(token, expire),
		PublicKey: s.publicKey,
		UploadURL: s.uploadURL,
	}
}

func (s *UploadAuthService) sign(token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(s.privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
