package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 32 << 20

// formValues 폼 필드마다 첫 번째 값을 모은다 (urlencoded, multipart 모두)
func formValues(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	values := make(map[string]string, len(c.Request.PostForm))
	for key, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			values[key] = vs[0]
		}
	}
	return values, nil
}

// requestValues JSON 객체 또는 일반 폼 요청 처리
// JSON bool, 숫자는 폼 값 형태로 변환
func requestValues(c *gin.Context) (map[string]string, error) {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		return formValues(c)
	}

	var raw map[string]interface{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch tv := v.(type) {
		case nil:
		case string:
			values[key] = tv
		case bool:
			if tv {
				values[key] = "on"
			}
		case json.Number:
			values[key] = tv.String()
		default:
			return nil, fmt.Errorf("field %s has unsupported type %T", key, v)
		}
	}
	return values, nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
