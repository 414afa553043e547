package retrieval

import "errors"

// ErrAccessDenied is returned when the caller may not read the retrieved
// documents. The handler maps it to 403; the denial reason is logged
// server-side and never leaked to the caller.
var ErrAccessDenied = errors.New("access to document denied")

// PublicIdentity is the sentinel identity used when neither an explicit
// entity override nor an authenticated caller is present.
const PublicIdentity = "public"

// AuthContext carries the identities considered during authorization.
type AuthContext struct {
	// RequestedIdentity is the identity first tried: the explicit entity_id
	// override when given, otherwise the authenticated caller, otherwise
	// PublicIdentity.
	RequestedIdentity string
	// AuthenticatedIdentity is the verified caller identity, empty for
	// anonymous requests. It is retried when the requested identity was an
	// override that did not match.
	AuthenticatedIdentity string
}

// NewAuthContext derives the identity pair from the request's optional
// entity_id override and the (possibly absent) authenticated identity.
func NewAuthContext(entityID, authenticatedID string) AuthContext {
	requested := entityID
	if requested == "" {
		requested = authenticatedID
	}
	if requested == "" {
		requested = PublicIdentity
	}
	return AuthContext{
		RequestedIdentity:     requested,
		AuthenticatedIdentity: authenticatedID,
	}
}

// Authorize restricts a retrieved set to what the caller may read.
//
// Only the top-ranked document's owner is inspected: ownership is assumed
// uniform across a single query's results. An ownerless top document, or
// one owned by the requested identity, authorizes the entire set. When an
// entity override was used and failed, the authenticated identity gets one
// retry. Everything else is a denial, as is an empty set.
func Authorize(docs []ScoredDocument, ac AuthContext) ([]ScoredDocument, error) {
	if len(docs) == 0 {
		return nil, ErrAccessDenied
	}

	owner, owned := docs[0].Document.Owner()
	if !owned || owner == ac.RequestedIdentity {
		return docs, nil
	}

	if ac.AuthenticatedIdentity != "" && ac.AuthenticatedIdentity != ac.RequestedIdentity {
		if owner == ac.AuthenticatedIdentity {
			return docs, nil
		}
	}

	return nil, ErrAccessDenied
}
