package types

// Algorithm tags written into detached signature files.
const (
	AlgorithmECDSA = "ECDSA-SHA256"
	AlgorithmHMAC  = "HMAC-SHA256"
)

// DocumentSignature is a self-contained detached ECDSA signature: verifying it
// needs only the original document.
type DocumentSignature struct {
	DocumentHash string      `json:"documentHash"` // base64 SHA-256
	Signature    string      `json:"signature"`    // base64 r||s over the hash
	Certificate  Certificate `json:"certificate"`
	Timestamp    int64       `json:"timestamp"` // Unix ms
}

// SymmetricSignature is a detached HMAC signature. The key is never embedded.
type SymmetricSignature struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix ms
	Signature string `json:"signature"` // base64 HMAC-SHA256
}

// SignatureScheme is the closed set of ways a document can be signed:
// Asymmetric or Symmetric.
type SignatureScheme interface {
	Algorithm() string
	isSignatureScheme()
}

// Asymmetric carries a certificate-backed ECDSA signature.
type Asymmetric struct {
	Signature DocumentSignature
}

// Algorithm implements SignatureScheme.
func (Asymmetric) Algorithm() string { return AlgorithmECDSA }
func (Asymmetric) isSignatureScheme() {}

// Symmetric carries an HMAC signature and the id of the key that made it.
// KeyID is empty when the signature file did not come from this session.
type Symmetric struct {
	KeyID     KeyID
	Signature SymmetricSignature
}

// Algorithm implements SignatureScheme.
func (Symmetric) Algorithm() string { return AlgorithmHMAC }
func (Symmetric) isSignatureScheme() {}
