package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/talkincode/stonecraft/config"
)

const cloudinaryEndpoint = "https://api.cloudinary.com"

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// CloudinaryStorage uploads images to the Cloudinary REST API using signed
// requests. The provider assigns the final public id and URL.
type CloudinaryStorage struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	endpoint  string
}

func NewCloudinaryStorage(cfg config.CloudinaryConfig) *CloudinaryStorage {
	return &CloudinaryStorage{
		cloudName: cfg.CloudName,
		apiKey:    cfg.ApiKey,
		apiSecret: cfg.ApiSecret,
		folder:    cfg.Folder,
		endpoint:  cloudinaryEndpoint,
	}
}

type cloudinaryResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Result    string `json:"result"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *CloudinaryStorage) Put(ctx context.Context, filename string, data []byte) (*StoredObject, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{"timestamp": timestamp}
	if s.folder != "" {
		params["folder"] = s.folder
	}

	form := gout.H{
		"file":      dataURI(filename, data),
		"api_key":   s.apiKey,
		"timestamp": timestamp,
		"signature": s.sign(params),
	}
	if s.folder != "" {
		form["folder"] = s.folder
	}

	var rsp cloudinaryResponse
	code := 0
	err := gout.POST(s.uploadURL("upload")).
		SetTimeout(time.Minute).
		SetWWWForm(form).
		BindJSON(&rsp).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary upload request")
	}
	if code != http.StatusOK || rsp.Error.Message != "" {
		return nil, errors.Errorf("cloudinary upload failed: status=%d %s", code, rsp.Error.Message)
	}

	return &StoredObject{URL: rsp.SecureURL, RemoteID: rsp.PublicID}, nil
}

func (s *CloudinaryStorage) Remove(ctx context.Context, remoteID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{
		"public_id": remoteID,
		"timestamp": timestamp,
	}

	var rsp cloudinaryResponse
	code := 0
	err := gout.POST(s.uploadURL("destroy")).
		SetTimeout(time.Minute).
		SetWWWForm(gout.H{
			"public_id": remoteID,
			"api_key":   s.apiKey,
			"timestamp": timestamp,
			"signature": s.sign(params),
		}).
		BindJSON(&rsp).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "cloudinary destroy request")
	}
	// "not found" means the object is already gone, which is fine
	if rsp.Result != "ok" && rsp.Result != "not found" {
		return errors.Errorf("cloudinary destroy failed: status=%d result=%q %s", code, rsp.Result, rsp.Error.Message)
	}
	return nil
}

func (s *CloudinaryStorage) uploadURL(action string) string {
	return fmt.Sprintf("%s/v1_1/%s/image/%s", s.endpoint, s.cloudName, action)
}

// sign computes the Cloudinary request signature: parameters sorted by name,
// joined as key=value pairs with '&', concatenated with the API secret and
// SHA1-hashed.
func (s *CloudinaryStorage) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

func dataURI(filename string, data []byte) string {
	ctype, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		ctype = "application/octet-stream"
	}
	return "data:" + ctype + ";base64," + base64.StdEncoding.EncodeToString(data)
}
