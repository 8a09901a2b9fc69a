package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitUploadRequest represents the material init API request.
type InitUploadRequest struct {
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// InitUploadResponse represents the material init API response.
type InitUploadResponse struct {
	MaterialID string `json:"material_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// CompleteUploadRequest represents the material complete API request.
type CompleteUploadRequest struct {
	MaterialID  string `json:"material_id"`
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key"`
	SHA256      string `json:"sha256,omitempty"`
}

// Material represents a stored course material.
type Material struct {
	ID          string `json:"id"`
	Phase       string `json:"phase"`
	Week        int    `json:"week"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// DownloadURLResponse represents the material download API response.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// MaterialCmd creates the material command group.
func MaterialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "Manage course materials",
	}

	cmd.AddCommand(materialUploadCmd())
	cmd.AddCommand(materialDownloadCmd())
	cmd.AddCommand(materialListCmd())

	return cmd
}

func materialUploadCmd() *cobra.Command {
	var (
		phase string
		week  int
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a course material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialUpload(cmd, args[0], phase, week)
		},
	}

	cmd.Flags().StringVarP(&phase, "phase", "p", "", "Curriculum phase (M1, M2, M3, MCE, LCE)")
	cmd.Flags().IntVarP(&week, "week", "w", 0, "Curriculum week")
	_ = cmd.MarkFlagRequired("phase")

	return cmd
}

func runMaterialUpload(cmd *cobra.Command, filePath, phase string, week int) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	filename := filepath.Base(filePath)
	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	hash, err := hashFile(filePath)
	if err != nil {
		return err
	}

	initResp, err := api.Post("/api/materials/init", InitUploadRequest{
		Phase:       phase,
		Week:        week,
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize upload: %w", err)
	}

	var initResult InitUploadResponse
	if err := json.Unmarshal(initResp.Data, &initResult); err != nil {
		return fmt.Errorf("failed to parse init response: %w", err)
	}

	if err := api.UploadFile(initResult.UploadURL, filePath, contentType); err != nil {
		return err
	}

	completeResp, err := api.Post("/api/materials/complete", CompleteUploadRequest{
		MaterialID:  initResult.MaterialID,
		Phase:       phase,
		Week:        week,
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  initResult.StorageKey,
		SHA256:      hash,
	})
	if err != nil {
		return fmt.Errorf("failed to complete upload: %w", err)
	}

	var material Material
	if err := json.Unmarshal(completeResp.Data, &material); err != nil {
		return fmt.Errorf("failed to parse complete response: %w", err)
	}

	fmt.Printf("Uploaded %s (%d bytes)\n", material.Filename, material.SizeBytes)
	fmt.Printf("ID: %s\n", material.ID)
	return nil
}

func materialDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a course material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialDownload(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output-file", "o", "", "Output path (defaults to the material ID)")

	return cmd
}

func runMaterialDownload(cmd *cobra.Command, materialID, output string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/materials/" + materialID + "/download")
	if err != nil {
		return fmt.Errorf("failed to get download URL: %w", err)
	}

	var downloadResp DownloadURLResponse
	if err := json.Unmarshal(resp.Data, &downloadResp); err != nil {
		return fmt.Errorf("failed to parse download response: %w", err)
	}

	if output == "" {
		output = materialID
	}

	if err := api.DownloadFile(downloadResp.DownloadURL, output); err != nil {
		return err
	}

	fmt.Printf("Downloaded to %s\n", output)
	return nil
}

func materialListCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List course materials for a phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runMaterialList(cmd, phase, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&phase, "phase", "p", "", "Curriculum phase (M1, M2, M3, MCE, LCE)")
	_ = cmd.MarkFlagRequired("phase")

	return cmd
}

func runMaterialList(cmd *cobra.Command, phase string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/materials?phase=" + phase)
	if err != nil {
		return fmt.Errorf("failed to list materials: %w", err)
	}

	var materials []Material
	if err := json.Unmarshal(resp.Data, &materials); err != nil {
		return fmt.Errorf("failed to parse materials: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(materials, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(materials) == 0 {
		fmt.Printf("No materials for %s.\n", strings.ToUpper(phase))
		return nil
	}

	for _, m := range materials {
		fmt.Printf("%s  week %-2d  %-40s  %d bytes  [%s]\n", m.ID, m.Week, m.Filename, m.SizeBytes, m.Status)
	}

	return nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
