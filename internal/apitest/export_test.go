package apitest

// Request constructors for handler-level tests in the external test package.

func NewWriteRequest(fingerprint, body string) *writeURLRequest {
	return &writeURLRequest{Fingerprint: fingerprint, RawBody: []byte(body)}
}

func NewUpdateRequest(fingerprint, code, body string) *updateURLRequest {
	return &updateURLRequest{Fingerprint: fingerprint, Code: code, RawBody: []byte(body)}
}

func NewLogsRequest(fingerprint, id string, page, limit int) *logsRequest {
	return &logsRequest{Fingerprint: fingerprint, ID: id, Page: page, Limit: limit}
}
