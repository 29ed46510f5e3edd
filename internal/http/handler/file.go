package handler

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vaultapi/internal/http/middleware"
	"vaultapi/internal/service"
)

type shareRequest struct {
	Grantee string `json:"grantee"`
}

// UploadFile accepts a multipart upload (field name: file), encrypts it and
// stores the envelope. The response carries metadata only.
func UploadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.UsernameFromCtx(c)

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		stored, err := fileSvc.Upload(c.UserContext(), data, fh.Filename, fh.Header.Get("Content-Type"), owner)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}

// DownloadFile streams the decrypted content with the declared filename and
// media type from the stored metadata.
func DownloadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := middleware.UsernameFromCtx(c)

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		res, err := fileSvc.Download(c.UserContext(), id, account)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
		c.Set(fiber.HeaderContentType, res.ContentType)
		return c.Send(res.Data)
	}
}

// ShareFile grants another account read access to one of the caller's files.
func ShareFile(grantSvc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		granter := middleware.UsernameFromCtx(c)

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req shareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		grant, err := grantSvc.Share(c.UserContext(), id, granter, req.Grantee)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(grant)
	}
}

// ListFiles returns metadata for the caller's own files.
func ListFiles(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := middleware.UsernameFromCtx(c)

		files, err := fileSvc.ListOwnedBy(c.UserContext(), account)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}
}

// ListSharedFiles returns metadata for files shared with the caller.
func ListSharedFiles(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := middleware.UsernameFromCtx(c)

		files, err := fileSvc.ListSharedWith(c.UserContext(), account)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}
}
