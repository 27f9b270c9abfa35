package models

// Upload is one uploaded file as received from the client.
type Upload struct {
	FileName string
	Data     []byte
}

// SkippedFile is a file that produced no record, with the reason shown to
// the user.
type SkippedFile struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}
