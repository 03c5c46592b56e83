package services

import (
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/filex"
)

// StorageKey is the object-store key of a document: "{userId}/{docId}.{ext}",
// or "{userId}/{docId}" when there is no extension.
func StorageKey(userID, docID, ext string) string {
	if ext == "" {
		return userID + "/" + docID
	}
	return userID + "/" + docID + "." + ext
}

// documentExt prefers the extension of the stored file and falls back to the
// display name.
func documentExt(localPath, name string) string {
	if ext := filex.Ext(localPath); ext != "" {
		return ext
	}
	return filex.Ext(name)
}

func derivedKey(userID string, doc models.UnifiedDocument) string {
	return StorageKey(userID, doc.ID, documentExt(doc.LocalPath, doc.Name))
}
