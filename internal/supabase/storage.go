package supabase

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// ProposalPath is the object path of a proposal: orders/{order_id}/{filename}.
func ProposalPath(orderID, filename string) string {
	return fmt.Sprintf("orders/%s/%s", orderID, filename)
}

// UploadProposal stores a generated PDF and returns its public URL.
func (s *StorageClient) UploadProposal(orderID, filename string, data []byte) (string, error) {
	storagePath := ProposalPath(orderID, filename)

	contentType := "application/pdf"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload proposal: %w", err)
	}

	return s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

// DeleteOrderFiles removes every proposal stored for the order.
func (s *StorageClient) DeleteOrderFiles(orderID string) error {
	prefix := fmt.Sprintf("orders/%s/", orderID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = prefix + file.Name
		}
		_, err = s.client.RemoveFile(s.bucket, filePaths)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}
