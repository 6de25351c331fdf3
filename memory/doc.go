// Package memory stores free-text documents in an external vector database
// and retrieves the ones most similar to a query.
//
// Storage model:
//   - Documents are insert-only; there is no update or delete.
//   - Embeddings are computed client-side and sent with each add and query.
//   - Nothing is cached here; every call goes to the store.
package memory
