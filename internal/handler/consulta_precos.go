package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/apierror"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

const precoCacheTTL = 4 * time.Hour

// ConsultaPrecosHandler serve a consulta pública de preço por código de
// produto, sem autenticação e sem efeito colateral.
type ConsultaPrecosHandler struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewConsultaPrecosHandler(repo repository.ProdutoRepository, rdb *redis.Client) *ConsultaPrecosHandler {
	return &ConsultaPrecosHandler{repo: repo, rdb: rdb}
}

func (h *ConsultaPrecosHandler) GetPrecoPorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "preco:" + codigo

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaPrecoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	produto, err := h.repo.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !produto.Ativo) {
		c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Nome:          produto.Nome,
		CodigoProduto: produto.CodigoProduto,
		PrecoKg:       produto.PrecoKg,
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, precoCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
