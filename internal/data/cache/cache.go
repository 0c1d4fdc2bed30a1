package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kmowery/weightline/internal/data/aggregator"
	"github.com/kmowery/weightline/internal/util"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNoFingerprint:
		return "no-fingerprint"
	case MissReasonNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

type Result struct {
	Data       *aggregator.AggregatedFile
	Found      bool
	MissReason MissReason
}

type ValidateResult struct {
	Valid      bool
	MissReason MissReason
}

// Cache stores per-file day aggregates so unchanged measurement files are
// not re-parsed between runs.
type Cache interface {
	Get(sourceID string) Result
	Set(sourceID string, data *aggregator.AggregatedFile) error
	Clear() error
	Preload() error
	BatchValidate(sourceIDs []string) map[string]ValidateResult
}

// FileCache keeps one JSON file per source under baseDir, mirrored by an
// in-memory map. A cached aggregate is trusted only while the source
// file's inode, size, and modtime are unchanged and, for recently
// modified files, its content fingerprint still matches.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*aggregator.AggregatedFile
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*aggregator.AggregatedFile),
	}, nil
}

func (c *FileCache) Get(sourceID string) Result {
	// Full lock: both branches may rewrite the memory map.
	c.mu.Lock()
	defer c.mu.Unlock()

	if memData, exists := c.memoryCache[sourceID]; exists {
		if ret := c.validate(memData); ret.Valid {
			return Result{Data: memData, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, sourceID)
	}

	return c.getFromFile(sourceID)
}

func (c *FileCache) getFromFile(sourceID string) Result {
	cachePath := filepath.Join(c.baseDir, sourceID+".json")

	file, err := os.Open(cachePath)
	if err != nil {
		return Result{Found: false, MissReason: MissReasonNotFound}
	}
	defer file.Close()

	var data aggregator.AggregatedFile
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return Result{Found: false, MissReason: MissReasonError}
	}

	if data.SourceID == "" && data.FilePath != "" {
		data.SourceID = aggregator.ExtractSourceID(data.FilePath)
	}

	if ret := c.validate(&data); !ret.Valid {
		return Result{Found: false, MissReason: ret.MissReason}
	}

	c.memoryCache[sourceID] = &data

	return Result{Data: &data, Found: true, MissReason: MissReasonNone}
}

func (c *FileCache) validate(data *aggregator.AggregatedFile) ValidateResult {
	currentInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: unable to get file info: %v", data.FilePath, err))
		return ValidateResult{Valid: false, MissReason: MissReasonError}
	}

	if currentInfo.Inode != data.Inode {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			data.FilePath, data.Inode, currentInfo.Inode))
		return ValidateResult{Valid: false, MissReason: MissReasonInode}
	}
	if currentInfo.Size != data.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			data.FilePath, data.FileSize, currentInfo.Size))
		return ValidateResult{Valid: false, MissReason: MissReasonSize}
	}
	if currentInfo.ModTime != data.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			data.FilePath, data.LastModified, currentInfo.ModTime))
		return ValidateResult{Valid: false, MissReason: MissReasonModTime}
	}

	// Files untouched for two days are trusted on stat alone.
	modTime := time.Unix(currentInfo.ModTime, 0)
	if time.Since(modTime) > 48*time.Hour {
		return ValidateResult{Valid: true, MissReason: MissReasonNone}
	}

	if data.ContentFingerprint == "" {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: no fingerprint in cached data", data.FilePath))
		return ValidateResult{Valid: false, MissReason: MissReasonNoFingerprint}
	}

	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: unable to calculate fingerprint: %v", data.FilePath, err))
		return ValidateResult{Valid: false, MissReason: MissReasonNoFingerprint}
	}

	if fingerprint != data.ContentFingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			data.FilePath, data.ContentFingerprint, fingerprint))
		return ValidateResult{Valid: false, MissReason: MissReasonFingerprint}
	}

	return ValidateResult{Valid: true, MissReason: MissReasonNone}
}

func (c *FileCache) Set(sourceID string, data *aggregator.AggregatedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		return err
	}

	data.LastModified = fileInfo.ModTime
	data.FileSize = fileInfo.Size
	data.Inode = fileInfo.Inode

	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err == nil {
		data.ContentFingerprint = fingerprint
	}

	if data.SourceID == "" {
		data.SourceID = sourceID
	}

	cachePath := filepath.Join(c.baseDir, sourceID+".json")
	file, err := os.Create(cachePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}

	c.memoryCache[sourceID] = data

	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*aggregator.AggregatedFile)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}

		return nil
	})
}

// Preload loads every cache file into memory so the first Get round does
// not fan out to disk.
func (c *FileCache) Preload() error {
	var cacheFiles []string
	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			cacheFiles = append(cacheFiles, path)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	if len(cacheFiles) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return nil
	}

	loaded := 0
	invalid := 0
	errors := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, path := range cacheFiles {
		fileName := filepath.Base(path)
		sourceID := strings.TrimSuffix(fileName, ".json")

		file, err := os.Open(path)
		if err != nil {
			errors++
			util.LogWarn(fmt.Sprintf("Failed to preload cache file %s: %v", path, err))
			continue
		}

		var data aggregator.AggregatedFile
		err = json.NewDecoder(file).Decode(&data)
		file.Close()

		if err != nil {
			errors++
			util.LogWarn(fmt.Sprintf("Failed to decode cache file %s: %v", path, err))
			continue
		}

		if data.SourceID == "" && data.FilePath != "" {
			data.SourceID = aggregator.ExtractSourceID(data.FilePath)
		}

		if c.validate(&data).Valid {
			c.memoryCache[sourceID] = &data
			loaded++
		} else {
			invalid++
		}
	}

	util.LogDebug(fmt.Sprintf("Cache preload complete: %d loaded, %d invalid, %d errors (total %d)",
		loaded, invalid, errors, len(cacheFiles)))

	return nil
}

func (c *FileCache) BatchValidate(sourceIDs []string) map[string]ValidateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]ValidateResult, len(sourceIDs))

	for _, sourceID := range sourceIDs {
		if memData, exists := c.memoryCache[sourceID]; exists {
			result[sourceID] = c.validate(memData)
		} else {
			fileResult := c.getFromFile(sourceID)
			result[sourceID] = ValidateResult{
				Valid:      fileResult.Found,
				MissReason: fileResult.MissReason,
			}
		}
	}

	validCount := 0
	for _, r := range result {
		if r.Valid {
			validCount++
		}
	}

	util.LogDebug(fmt.Sprintf("Batch validation complete: %d files, %d valid",
		len(sourceIDs), validCount))

	return result
}
