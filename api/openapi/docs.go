// Package openapi 注册 /swagger 使用的接口文档，内容与 handler 上的 swag 注解保持一致
package openapi

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/google-login": {
            "post": {
                "tags": ["认证"],
                "summary": "Google 登录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.GoogleLoginRequest"}}],
                "responses": {"200": {"description": "登录成功"}, "400": {"description": "请求参数无效"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["认证"],
                "summary": "获取当前用户信息",
                "responses": {"200": {"description": "获取成功"}, "401": {"description": "未授权"}}
            }
        },
        "/auth/signout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["认证"],
                "summary": "退出登录",
                "responses": {"200": {"description": "退出成功"}, "401": {"description": "未授权"}}
            }
        },
        "/videos": {
            "get": {
                "tags": ["视频"],
                "summary": "推荐视频",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["视频"],
                "summary": "发布视频",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.VideoCreateRequest"}}],
                "responses": {"201": {"description": "发布成功"}, "400": {"description": "请求参数无效"}}
            }
        },
        "/videos/trending": {
            "get": {
                "tags": ["视频"],
                "summary": "热门视频",
                "responses": {"200": {"description": "获取成功"}}
            }
        },
        "/videos/search": {
            "get": {
                "tags": ["搜索"],
                "summary": "搜索视频",
                "parameters": [{"type": "string", "name": "query", "in": "query", "required": true}],
                "responses": {"200": {"description": "搜索成功"}, "400": {"description": "关键词为空"}}
            }
        },
        "/videos/upload-url": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["视频"],
                "summary": "获取上传地址",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UploadURLRequest"}}],
                "responses": {"200": {"description": "获取成功"}}
            }
        },
        "/videos/{id}": {
            "get": {
                "tags": ["视频"],
                "summary": "视频详情",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}, "404": {"description": "视频不存在"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["视频"],
                "summary": "删除视频",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功"}, "403": {"description": "无权限"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["用户"],
                "summary": "推荐频道",
                "responses": {"200": {"description": "获取成功"}}
            }
        },
        "/users/search": {
            "get": {
                "tags": ["搜索"],
                "summary": "搜索频道",
                "parameters": [{"type": "string", "name": "query", "in": "query", "required": true}],
                "responses": {"200": {"description": "搜索成功"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["用户"],
                "summary": "频道主页",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}, "404": {"description": "用户不存在"}}
            }
        },
        "/users/{id}/subscribe": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["用户"],
                "summary": "切换订阅",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "操作成功"}, "400": {"description": "不能订阅自己"}}
            }
        }
    },
    "definitions": {
        "dto.GoogleLoginRequest": {
            "type": "object",
            "required": ["email", "username"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "dto.VideoCreateRequest": {
            "type": "object",
            "required": ["title", "url"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "url": {"type": "string"},
                "thumbnail": {"type": "string"}
            }
        },
        "dto.UploadURLRequest": {
            "type": "object",
            "required": ["kind", "file_ext"],
            "properties": {
                "kind": {"type": "string", "enum": ["video", "thumbnail"]},
                "file_ext": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "输入格式: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo 文档元信息，可在启动时修改 Host
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VidHub API",
	Description:      "视频分享平台 API 服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
