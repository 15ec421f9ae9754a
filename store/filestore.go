package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"referral_admin/models"
)

// fileStore 本地JSON文件后端
// 文件内容是推广达人对象的JSON数组，文件不存在等同于空数组
// 文件没有加锁保护，并发写入时后写者覆盖先写者，这是文件后端已知的限制
type fileStore struct {
	path string
}

// configured 判断文件后端是否启用
func (f *fileStore) configured() bool {
	return f.path != ""
}

// load 读取完整的推广达人集合
// 文件不存在视为零条记录，不算错误
func (f *fileStore) load() ([]models.Influencer, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Influencer{}, nil
		}
		return nil, fmt.Errorf("%w: 读取本地文件失败: %v", ErrBackendUnavailable, err)
	}

	var influencers []models.Influencer
	if err := json.Unmarshal(data, &influencers); err != nil {
		return nil, fmt.Errorf("%w: 本地文件内容损坏: %v", ErrBackendUnavailable, err)
	}
	if influencers == nil {
		influencers = []models.Influencer{}
	}
	return influencers, nil
}

// save 用序列化后的完整集合整体覆盖文件
// 先写临时文件再原子重命名，避免写入中途失败留下半成品
func (f *fileStore) save(influencers []models.Influencer) error {
	data, err := json.MarshalIndent(influencers, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: 序列化失败: %v", ErrBackendUnavailable, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 创建数据目录失败: %v", ErrBackendUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".influencers-*.json")
	if err != nil {
		return fmt.Errorf("%w: 创建临时文件失败: %v", ErrBackendUnavailable, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: 写入临时文件失败: %v", ErrBackendUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: 关闭临时文件失败: %v", ErrBackendUnavailable, err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: 替换数据文件失败: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// append 追加一条推广达人记录
func (f *fileStore) append(influencer models.Influencer) error {
	influencers, err := f.load()
	if err != nil {
		return err
	}
	return f.save(append(influencers, influencer))
}

// delete 按ID删除推广达人记录
// 目标不存在时是幂等的空操作，文件不存在时同样直接成功
func (f *fileStore) delete(id string) error {
	influencers, err := f.load()
	if err != nil {
		return err
	}
	if len(influencers) == 0 {
		return nil
	}

	filtered := make([]models.Influencer, 0, len(influencers))
	for _, influencer := range influencers {
		if influencer.ID != id {
			filtered = append(filtered, influencer)
		}
	}
	if len(filtered) == len(influencers) {
		return nil
	}
	return f.save(filtered)
}
