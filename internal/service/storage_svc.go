package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
type StorageProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 删除文件，文件不存在时不报错
	Delete(ctx context.Context, url string) error

	// List 列出已存储的文件
	List(ctx context.Context) ([]StoredObject, error)

	// KeyOf 将访问URL还原为存储 key，访问域名变更后的旧地址同样可以识别
	KeyOf(url string) (key string, ok bool)
}

// StoredObject 已存储的文件
type StoredObject struct {
	Key     string
	URL     string
	ModTime time.Time
}

// ==================== 配置 ====================

type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // S3 兼容服务端点（MinIO/COS/OSS）；本地存储时为访问URL前缀
	CDNDomain string // CDN域名 (可选)
	BasePath  string // 基础路径前缀；本地存储时为存储目录
}

// MaxImageSize 单张图片上限 10MB
const MaxImageSize = 10 << 20

// 允许上传的图片扩展名
var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ==================== 工厂方法 ====================

func NewStorageProvider(cfg StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== StorageService ====================

// StorageService 图片存储服务
type StorageService struct {
	provider StorageProvider
	config   StorageConfig
	client   *resty.Client
}

// NewStorageService 创建存储服务
func NewStorageService(cfg StorageConfig) (*StorageService, error) {
	provider, err := NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewStorageServiceWithProvider(provider, cfg), nil
}

// NewStorageServiceWithProvider 使用指定的 Provider 创建存储服务
func NewStorageServiceWithProvider(provider StorageProvider, cfg StorageConfig) *StorageService {
	return &StorageService{
		provider: provider,
		config:   cfg,
		client: resty.New().
			SetTimeout(30*time.Second).
			SetRetryCount(2).
			SetResponseBodyLimit(MaxImageSize).
			SetHeader("User-Agent", "sky-takeout/1.0"),
	}
}

// UploadImage 上传菜品/套餐图片，仅支持 jpg/jpeg/png
func (s *StorageService) UploadImage(ctx context.Context, data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", validation("上传文件不能为空")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	contentType, ok := allowedImageExts[ext]
	if !ok {
		return "", validation("不支持的文件类型: %s", ext)
	}

	return s.provider.Upload(ctx, data, uuid.New().String()+ext, contentType)
}

// UploadFromURL 下载远程图片并上传
// 远程地址不可用或图片过大属于请求参数问题，返回 ErrValidation
func (s *StorageService) UploadFromURL(ctx context.Context, sourceURL string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(sourceURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return "", validation("远程图片不能超过10MB")
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", validation("下载远程图片失败: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", validation("下载远程图片失败: HTTP %d", resp.StatusCode())
	}

	name := remoteFileName(sourceURL, resp.Header().Get("Content-Type"))
	return s.UploadImage(ctx, resp.Body(), name)
}

// Delete 删除文件
func (s *StorageService) Delete(ctx context.Context, url string) error {
	return s.provider.Delete(ctx, url)
}

// List 列出已存储的文件
func (s *StorageService) List(ctx context.Context) ([]StoredObject, error) {
	return s.provider.List(ctx)
}

// KeyOf 将图片地址还原为存储 key
func (s *StorageService) KeyOf(url string) (string, bool) {
	return s.provider.KeyOf(url)
}

// LocalDir 本地存储目录，非本地存储返回空
func (s *StorageService) LocalDir() string {
	if local, ok := s.provider.(*LocalStorage); ok {
		return local.basePath
	}
	return ""
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	cdnDomain string
	basePath  string
}

// NewS3Storage 创建 S3 存储；配置 Endpoint 时按 S3 兼容服务处理（path-style）
func NewS3Storage(cfg StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载S3配置失败: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  endpoint,
		cdnDomain: cfg.CDNDomain,
		basePath:  strings.Trim(cfg.BasePath, "/"),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := generateKey(s.basePath, filename)

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("无法解析文件路径: %s", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) List(ctx context.Context) ([]StoredObject, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.basePath != "" {
		input.Prefix = aws.String(s.basePath + "/")
	}

	var objects []StoredObject
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("列出S3对象失败: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			objects = append(objects, StoredObject{
				Key:     key,
				URL:     s.publicURL(key),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (s *S3Storage) publicURL(key string) string {
	switch {
	case s.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

func (s *S3Storage) extractKey(url string) string {
	prefix := strings.TrimSuffix(s.publicURL(""), "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// KeyOf 先按当前访问地址解析，失败时按路径解析，兼容 CDN 或端点变更前保存的地址
func (s *S3Storage) KeyOf(url string) (string, bool) {
	if key := s.extractKey(url); key != "" {
		return key, true
	}

	u, err := neturl.Parse(url)
	if err != nil {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	// path-style 地址以 bucket 开头
	if s.basePath == "" || !strings.HasPrefix(key, s.basePath+"/") {
		key = strings.TrimPrefix(key, s.bucket+"/")
	}
	if s.basePath != "" && !strings.HasPrefix(key, s.basePath+"/") {
		return "", false
	}
	if !validKey(key) {
		return "", false
	}
	return key, true
}

// ==================== 本地存储 ====================

type LocalStorage struct {
	basePath string
	baseURL  string
	urlPath  string // baseURL 的路径部分，如 /uploads
}

func NewLocalStorage(cfg StorageConfig) (*LocalStorage, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}
	baseURL := strings.TrimRight(cfg.Endpoint, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}

	u, err := neturl.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("解析访问地址失败: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
		urlPath:  strings.TrimRight(u.Path, "/"),
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := generateKey("", filename)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || !validKey(key) {
		return fmt.Errorf("无法解析文件路径: %s", url)
	}

	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) List(ctx context.Context) ([]StoredObject, error) {
	var objects []StoredObject
	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		objects = append(objects, StoredObject{
			Key:     key,
			URL:     s.baseURL + "/" + key,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("列出本地文件失败: %w", err)
	}
	return objects, nil
}

// KeyOf 按 URL 路径解析 key，不比较域名
func (s *LocalStorage) KeyOf(url string) (string, bool) {
	if key, ok := strings.CutPrefix(url, s.baseURL+"/"); ok && validKey(key) {
		return key, true
	}

	u, err := neturl.Parse(url)
	if err != nil {
		return "", false
	}
	key, ok := strings.CutPrefix(u.Path, s.urlPath+"/")
	if !ok || !validKey(key) {
		return "", false
	}
	return key, true
}

// ==================== 工具函数 ====================

func validKey(key string) bool {
	return key != "" && !strings.Contains(key, "..")
}

// generateKey 生成存储路径: {basePath}/{yyyy/mm/dd}/{filename}
func generateKey(basePath, filename string) string {
	datePath := time.Now().Format("2006/01/02")
	if basePath != "" {
		return path.Join(basePath, datePath, filename)
	}
	return path.Join(datePath, filename)
}

// remoteFileName 从远程地址或 Content-Type 推断文件名
func remoteFileName(sourceURL, contentType string) string {
	if u, err := neturl.Parse(sourceURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); allowedImageExts[ext] != "" {
			return path.Base(u.Path)
		}
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "image/png":
		return "remote.png"
	case "image/jpeg":
		return "remote.jpg"
	}
	return "remote"
}
