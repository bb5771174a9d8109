package auth

import (
	"errors"

	"github.com/goliatone/go-maryme/pkg/gateway"
)

// Backend error codes.
const (
	CodeInvalidEmail  = "INVALID EMAIL"
	CodeInternalError = "INTERNAL ERROR"
	CodeInvalidToken  = "INVALID TOKEN"
	CodeExpiredToken  = "EXPIRED TOKEN"
)

const (
	FallbackMessage     = "Oups quelque chose a mal fonctionne"
	MissingEmailMessage = "Email invalide redemandez le code"
	ThrottledMessage    = "Veuillez patienter avant de redemander un code"
	BusyMessage         = "Une demande est deja en cours"
)

// Messages maps backend error codes to user-facing copy.
type Messages map[string]string

// RequestMessages covers the code request step.
var RequestMessages = Messages{
	CodeInvalidEmail:  "Votr adresse electronique n'est pas valide verifier l'orthographe",
	CodeInternalError: "Erreur du serveur ressayer plustart",
}

// VerifyMessages covers the code verification step.
var VerifyMessages = Messages{
	CodeInvalidToken: "Votre code est invalide",
	CodeExpiredToken: "Votre code a expire",
}

// Resolve picks the copy for err. Transport failures keep the gateway copy,
// known codes get their table entry, anything else the server message or
// fallback.
func (m Messages) Resolve(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, gateway.ErrTransport) {
		return gateway.Message(err, gateway.NetworkMessage)
	}
	if msg, ok := m[gateway.Code(err)]; ok {
		return msg
	}
	return gateway.Message(err, fallback)
}
