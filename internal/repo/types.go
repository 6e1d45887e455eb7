package repo

// CommitInfo describes the last commit that touched a file.
// All fields come from git; Date is ISO-8601 (git %aI).
type CommitInfo struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Message string `json:"message"`
}
