package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ownedBy 限定查询只作用于 ownerID 名下的记录，所有资源查询都从这里开始
func ownedBy(gdb *gorm.DB, ownerID uint) *gorm.DB {
	return gdb.Where("user_id = ?", ownerID)
}

// findOwned 以 id AND user_id 联合条件加载记录。
// 属于其他用户的记录与不存在的记录一样返回 notFound，避免通过存在性探测归属。
func findOwned[T any](gdb *gorm.DB, ownerID, id uint, notFound error) (*T, error) {
	var record T
	if err := ownedBy(gdb, ownerID).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find owned record: %w", err)
	}
	return &record, nil
}

// deleteOwned 按 id AND user_id 删除记录，未命中时返回 notFound
func deleteOwned[T any](gdb *gorm.DB, ownerID, id uint, notFound error) error {
	var model T
	result := ownedBy(gdb, ownerID).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return fmt.Errorf("delete owned record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
