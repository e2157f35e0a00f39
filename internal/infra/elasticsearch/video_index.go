package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"vidhub/internal/api/dto"
	"vidhub/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const videosMapping = `{
	"settings": {"number_of_shards": 1, "number_of_replicas": 0},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"author_id": {"type": "long"},
			"author_name": {"type": "keyword"},
			"title": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 200}}},
			"description": {"type": "text"},
			"thumbnail": {"type": "keyword", "index": false},
			"views": {"type": "long"},
			"likes": {"type": "long"},
			"created_at": {"type": "date", "format": "epoch_second"}
		}
	}
}`

// VideoIndex 视频搜索索引
type VideoIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewVideoIndex(es *elasticsearch.Client, index string) *VideoIndex {
	return &VideoIndex{es: es, index: index}
}

// EnsureIndex 索引不存在时创建
func (x *VideoIndex) EnsureIndex(ctx context.Context) error {
	resp, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		logger.Info("Elasticsearch videos index already exists", zap.String("index", x.index))
		return nil
	}

	resp, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(ctx),
		x.es.Indices.Create.WithBody(strings.NewReader(videosMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch videos index created", zap.String("index", x.index))
	return nil
}

// Upsert 写入（覆盖）视频文档
func (x *VideoIndex) Upsert(ctx context.Context, doc *dto.VideoDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := x.es.Index(x.index, bytes.NewReader(body),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Video synced to ES", zap.Int64("video_id", doc.ID))
	return nil
}

// Delete 删除视频文档，文档不存在不算错误
func (x *VideoIndex) Delete(ctx context.Context, videoID int64) error {
	resp, err := x.es.Delete(x.index, strconv.FormatInt(videoID, 10), x.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// Search 标题、描述全文检索，返回按相关度排序的视频 ID
func (x *VideoIndex) Search(ctx context.Context, keyword string, from, size int) ([]int64, int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    keyword,
				"fields":   []string{"title^3", "description"},
				"type":     "best_fields",
				"operator": "or",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	resp, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, 0, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}
